package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sepwatch/config"
	"github.com/spiffcs/sepwatch/internal/ghclient"
	"github.com/spiffcs/sepwatch/internal/log"
	"github.com/spiffcs/sepwatch/internal/maintainers"
)

// NewCmdSponsors creates the sponsors command.
func NewCmdSponsors(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sponsors [username]...",
		Short: "List eligible SEP sponsors, or check specific users",
		Long: `Without arguments, lists every login eligible to sponsor a SEP.
With arguments, checks each given user's eligibility.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSponsors(cmd, args, opts)
		},
	}

	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	return cmd
}

func runSponsors(cmd *cobra.Command, logins []string, opts *Options) error {
	ctx := cmd.Context()
	log.Initialize(opts.Verbosity, cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token := cfg.GetGitHubToken()
	if token == "" {
		return fmt.Errorf("no GitHub token found: set GITHUB_TOKEN")
	}

	client, err := ghclient.NewClient(ctx, token, cfg.TargetOwner, cfg.TargetRepo)
	if err != nil {
		return err
	}

	resolver := maintainers.NewResolver(buildSource(cfg, client))

	if len(logins) == 0 {
		all := resolver.Sponsors(ctx)
		if len(all) == 0 {
			fmt.Println("no eligible sponsors found")
			return nil
		}
		for _, login := range all {
			fmt.Println(login)
		}
		return nil
	}

	for _, login := range logins {
		if resolver.CanSponsor(ctx, login) {
			fmt.Printf("%s: eligible sponsor\n", login)
		} else {
			fmt.Printf("%s: not an eligible sponsor\n", login)
		}
	}
	return nil
}
