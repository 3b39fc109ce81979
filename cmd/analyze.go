package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sepwatch/config"
	"github.com/spiffcs/sepwatch/internal/ghclient"
	"github.com/spiffcs/sepwatch/internal/log"
	"github.com/spiffcs/sepwatch/internal/maintainers"
	"github.com/spiffcs/sepwatch/internal/output"
	"github.com/spiffcs/sepwatch/internal/sep"
	"github.com/spiffcs/sepwatch/internal/service"
)

// NewCmdAnalyze creates the analyze command.
func NewCmdAnalyze(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze all open SEPs and act on stale ones (same as root sepwatch)",
		Long: `Finds every open SEP in the target repository, determines how long
each one has been waiting on its responsible party, and pings or
retires the stale ones.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	addAnalyzeFlags(cmd, opts)
	return cmd
}

// addAnalyzeFlags adds the analyze-specific flags to a command.
func addAnalyzeFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Report decisions without changing anything")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent fetch workers (default 8)")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "Target repository owner (overrides config)")
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Target repository name (overrides config)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
}

func runAnalyze(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()

	runner, cfg, err := buildRunner(ctx, opts)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(selectFormat(opts, cfg))
	if err := formatter.Format(result, os.Stdout); err != nil {
		return err
	}

	if result.Failures > 0 {
		return fmt.Errorf("%d of %d SEPs could not be processed", result.Failures, len(result.Results))
	}
	return nil
}

// buildRunner loads config, authenticates, and assembles the pipeline.
// Shared by every command that talks to the tracker.
func buildRunner(ctx context.Context, opts *Options) (*service.Runner, *config.Config, error) {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.Owner != "" {
		cfg.TargetOwner = opts.Owner
	}
	if opts.Repo != "" {
		cfg.TargetRepo = opts.Repo
	}

	token := cfg.GetGitHubToken()
	if token == "" {
		return nil, nil, fmt.Errorf("no GitHub token found: set GITHUB_TOKEN")
	}

	client, err := ghclient.NewClient(ctx, token, cfg.TargetOwner, cfg.TargetRepo)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("targeting repository", "repo", cfg.TargetRepoFullName())
	if log.IsDebug() {
		if login, err := client.AuthenticatedUser(ctx); err == nil {
			log.Debug("authenticated", "login", login)
		}
	}

	dryRun := opts.DryRun || cfg.DryRun
	analyzer := sep.NewAnalyzer(cfg.GetThresholds())
	resolver := maintainers.NewResolver(buildSource(cfg, client))

	return service.NewRunner(client, client, analyzer, resolver, dryRun, opts.Workers), cfg, nil
}

// buildSource selects the sponsor discovery strategy from config.
func buildSource(cfg *config.Config, client *ghclient.Client) maintainers.Source {
	switch cfg.SponsorSource {
	case config.SourceTeam:
		return maintainers.NewTeamSource(client, cfg.MaintainersTeam)
	case config.SourceStatic:
		return maintainers.NewStaticSource(cfg.FallbackMaintainers)
	default:
		return maintainers.NewHierarchySource(client, cfg.MaintainersTeam)
	}
}

func selectFormat(opts *Options, cfg *config.Config) output.Format {
	if opts.Format != "" {
		return output.Format(opts.Format)
	}
	if cfg.DefaultFormat != "" {
		return output.Format(cfg.DefaultFormat)
	}
	return output.FormatTable
}
