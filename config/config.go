// Package config loads and validates sepwatch configuration.
//
// Configuration is layered: built-in defaults, then an optional global
// config file from the XDG config directory, then an optional local
// .sepwatch.yaml, then environment variable overrides. Numeric
// environment values that fail to parse are fatal at load time, before
// any analysis runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/sepwatch/internal/constants"
)

// SponsorSourceKind selects how the sponsor resolver discovers eligible
// identities. The choice is made once, at resolver construction.
type SponsorSourceKind string

const (
	// SourceTeam checks each login directly against the maintainers team.
	SourceTeam SponsorSourceKind = "team"

	// SourceHierarchy walks every team reachable from the maintainers team
	// via parent links and unions their memberships.
	SourceHierarchy SponsorSourceKind = "hierarchy"

	// SourceStatic uses the fallback_maintainers allow-list. Intended for
	// tokens without org:read scope; the list must be kept in sync with
	// the maintainers team out-of-band.
	SourceStatic SponsorSourceKind = "static"
)

// Config represents the application configuration.
type Config struct {
	TargetOwner         string            `yaml:"target_owner,omitempty"`
	TargetRepo          string            `yaml:"target_repo,omitempty"`
	MaintainersTeam     string            `yaml:"maintainers_team,omitempty"`
	SponsorSource       SponsorSourceKind `yaml:"sponsor_source,omitempty"`
	FallbackMaintainers []string          `yaml:"fallback_maintainers,omitempty"`
	DryRun              bool              `yaml:"dry_run,omitempty"`
	DefaultFormat       string            `yaml:"default_format,omitempty"`

	Thresholds *ThresholdOverrides `yaml:"thresholds,omitempty"`
}

// ThresholdOverrides allows customizing individual staleness thresholds.
// Unset fields keep their defaults.
type ThresholdOverrides struct {
	ProposalPingDays         *int `yaml:"proposal_ping_days,omitempty"`
	ProposalDormantDays      *int `yaml:"proposal_dormant_days,omitempty"`
	DraftPingDays            *int `yaml:"draft_ping_days,omitempty"`
	AcceptedPingDays         *int `yaml:"accepted_ping_days,omitempty"`
	PingCooldownDays         *int `yaml:"ping_cooldown_days,omitempty"`
	MaintainerInactivityDays *int `yaml:"maintainer_inactivity_days,omitempty"`
}

// Thresholds is the complete, resolved set of staleness thresholds in days.
type Thresholds struct {
	ProposalPingDays         int
	ProposalDormantDays      int
	DraftPingDays            int
	AcceptedPingDays         int
	PingCooldownDays         int
	MaintainerInactivityDays int
}

// DefaultThresholds returns the default staleness thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ProposalPingDays:         constants.DefaultProposalPingDays,
		ProposalDormantDays:      constants.DefaultProposalDormantDays,
		DraftPingDays:            constants.DefaultDraftPingDays,
		AcceptedPingDays:         constants.DefaultAcceptedPingDays,
		PingCooldownDays:         constants.DefaultPingCooldownDays,
		MaintainerInactivityDays: constants.DefaultMaintainerInactivityDays,
	}
}

// GetThresholds returns thresholds with user overrides merged with defaults.
func (c *Config) GetThresholds() Thresholds {
	t := DefaultThresholds()
	if c.Thresholds == nil {
		return t
	}

	o := c.Thresholds
	if o.ProposalPingDays != nil {
		t.ProposalPingDays = *o.ProposalPingDays
	}
	if o.ProposalDormantDays != nil {
		t.ProposalDormantDays = *o.ProposalDormantDays
	}
	if o.DraftPingDays != nil {
		t.DraftPingDays = *o.DraftPingDays
	}
	if o.AcceptedPingDays != nil {
		t.AcceptedPingDays = *o.AcceptedPingDays
	}
	if o.PingCooldownDays != nil {
		t.PingCooldownDays = *o.PingCooldownDays
	}
	if o.MaintainerInactivityDays != nil {
		t.MaintainerInactivityDays = *o.MaintainerInactivityDays
	}
	return t
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".sepwatch"
	}
	return filepath.Join(configDir, "sepwatch")
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current
// directory.
func LocalConfigPath() string {
	return ".sepwatch.yaml"
}

// Load loads the configuration: defaults, then the global config file,
// then the local config file, then environment overrides. Returns an
// error for malformed files or non-numeric numeric env values.
func Load() (*Config, error) {
	cfg := &Config{
		TargetOwner:     constants.DefaultTargetOwner,
		TargetRepo:      constants.DefaultTargetRepo,
		MaintainersTeam: constants.DefaultMaintainersTeam,
		SponsorSource:   SourceHierarchy,
		DefaultFormat:   "table",
	}

	for _, path := range []string{ConfigPath(), LocalConfigPath()} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv applies environment variable overrides on top of file config.
func (c *Config) applyEnv() error {
	if v := os.Getenv("TARGET_OWNER"); v != "" {
		c.TargetOwner = v
	}
	if v := os.Getenv("TARGET_REPO"); v != "" {
		c.TargetRepo = v
	}
	if v := os.Getenv("MAINTAINERS_TEAM"); v != "" {
		c.MaintainersTeam = v
	}
	if v := os.Getenv("SPONSOR_SOURCE"); v != "" {
		c.SponsorSource = SponsorSourceKind(v)
	}
	if v := os.Getenv("FALLBACK_MAINTAINERS"); v != "" {
		c.FallbackMaintainers = splitList(v)
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		c.DryRun = v == "true" || v == "1"
	}

	if c.Thresholds == nil {
		c.Thresholds = &ThresholdOverrides{}
	}
	numeric := []struct {
		name string
		dst  **int
	}{
		{"PROPOSAL_PING_DAYS", &c.Thresholds.ProposalPingDays},
		{"PROPOSAL_DORMANT_DAYS", &c.Thresholds.ProposalDormantDays},
		{"DRAFT_PING_DAYS", &c.Thresholds.DraftPingDays},
		{"ACCEPTED_PING_DAYS", &c.Thresholds.AcceptedPingDays},
		{"PING_COOLDOWN_DAYS", &c.Thresholds.PingCooldownDays},
		{"MAINTAINER_INACTIVITY_DAYS", &c.Thresholds.MaintainerInactivityDays},
	}
	for _, nv := range numeric {
		v := os.Getenv(nv.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("environment variable %s must be a number, got %q", nv.name, v)
		}
		*nv.dst = &n
	}

	return nil
}

// validate rejects configurations that cannot drive a meaningful run.
func (c *Config) validate() error {
	switch c.SponsorSource {
	case SourceTeam, SourceHierarchy, SourceStatic:
	default:
		return fmt.Errorf("invalid sponsor_source %q (valid: team, hierarchy, static)", c.SponsorSource)
	}
	if c.SponsorSource == SourceStatic && len(c.FallbackMaintainers) == 0 {
		return fmt.Errorf("sponsor_source is static but fallback_maintainers is empty")
	}

	t := c.GetThresholds()
	for name, v := range map[string]int{
		"proposal_ping_days":         t.ProposalPingDays,
		"proposal_dormant_days":      t.ProposalDormantDays,
		"draft_ping_days":            t.DraftPingDays,
		"accepted_ping_days":         t.AcceptedPingDays,
		"ping_cooldown_days":         t.PingCooldownDays,
		"maintainer_inactivity_days": t.MaintainerInactivityDays,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}
	if t.ProposalDormantDays <= t.ProposalPingDays {
		return fmt.Errorf("proposal_dormant_days (%d) must exceed proposal_ping_days (%d)",
			t.ProposalDormantDays, t.ProposalPingDays)
	}

	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Following 12-factor app best practices, tokens are only read
// from the environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// TargetRepoFullName returns the owner/repo form of the target repository.
func (c *Config) TargetRepoFullName() string {
	return c.TargetOwner + "/" + c.TargetRepo
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
