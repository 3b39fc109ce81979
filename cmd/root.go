package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "sepwatch",
		Short: "SEP lifecycle automation",
		Long: `A CLI tool that keeps a SEP tracker healthy: it finds stale
proposals, nudges the responsible party, and retires proposals nobody
is pursuing anymore.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add analyze flags to root command so `sepwatch` and `sepwatch analyze`
	// work identically
	addAnalyzeFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdAnalyze(opts))
	rootCmd.AddCommand(NewCmdAudit(opts))
	rootCmd.AddCommand(NewCmdSponsors(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
