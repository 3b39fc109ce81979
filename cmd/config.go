package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spiffcs/sepwatch/config"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long: `Show configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  path  Show config file locations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigPath())

	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		Long:  `Show the paths to global and local config files and indicate which exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range []string{config.ConfigPath(), config.LocalConfigPath()} {
				marker := "(not found)"
				if _, err := os.Stat(path); err == nil {
					marker = "(exists)"
				}
				fmt.Printf("%s %s\n", path, marker)
			}
			return nil
		},
	}
}

// runConfigShow prints the merged configuration, including resolved
// thresholds, in the requested format.
func runConfigShow(outputFormat string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	view := struct {
		Target        string                   `yaml:"target" json:"target"`
		SponsorSource config.SponsorSourceKind `yaml:"sponsor_source" json:"sponsorSource"`
		Team          string                   `yaml:"maintainers_team" json:"maintainersTeam"`
		Fallback      []string                 `yaml:"fallback_maintainers,omitempty" json:"fallbackMaintainers,omitempty"`
		DryRun        bool                     `yaml:"dry_run" json:"dryRun"`
		Thresholds    config.Thresholds        `yaml:"thresholds" json:"thresholds"`
	}{
		Target:        cfg.TargetRepoFullName(),
		SponsorSource: cfg.SponsorSource,
		Team:          cfg.MaintainersTeam,
		Fallback:      cfg.FallbackMaintainers,
		DryRun:        cfg.DryRun,
		Thresholds:    cfg.GetThresholds(),
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	default:
		data, err := yaml.Marshal(view)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}
}
