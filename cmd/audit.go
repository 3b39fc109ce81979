package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCmdAudit creates the audit command.
func NewCmdAudit(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <sep-number> <username>",
		Short: "Report a specific participant's activity on a SEP",
		Long: `Checks when the given user last acted on a SEP, whether by comment
or timeline event. Useful for auditing maintainer responsiveness
independently of who the responsible party is.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid SEP number %q", args[0])
			}
			login := args[1]

			runner, _, err := buildRunner(cmd.Context(), opts)
			if err != nil {
				return err
			}

			activity, err := runner.AuditUser(cmd.Context(), number, login)
			if err != nil {
				return err
			}

			fmt.Printf("%s last acted on SEP #%d %d days ago\n",
				activity.Login, number, activity.DaysSinceActivity)
			if activity.ShouldPing {
				fmt.Println("inactive past the maintainer threshold; a ping is warranted")
			}
			return nil
		},
	}

	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	return cmd
}
