package cmd

import (
	"testing"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "sepwatch" {
		t.Errorf("expected Use to be 'sepwatch', got %q", cmd.Use)
	}
}

func TestNewCmdAnalyze(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdAnalyze(opts)
	if cmd == nil {
		t.Fatal("NewCmdAnalyze() returned nil")
	}
	if cmd.Use != "analyze" {
		t.Errorf("expected Use to be 'analyze', got %q", cmd.Use)
	}
}

func TestNewCmdAudit(t *testing.T) {
	cmd := NewCmdAudit(&Options{})
	if cmd == nil {
		t.Fatal("NewCmdAudit() returned nil")
	}
	if err := cmd.Args(cmd, []string{"123"}); err == nil {
		t.Error("audit should require exactly two arguments")
	}
	if err := cmd.Args(cmd, []string{"123", "alice"}); err != nil {
		t.Errorf("audit should accept two arguments: %v", err)
	}
}

func TestNewCmdSponsors(t *testing.T) {
	cmd := NewCmdSponsors(&Options{})
	if cmd == nil {
		t.Fatal("NewCmdSponsors() returned nil")
	}
	// Zero arguments lists all sponsors; any number of logins is valid.
	if err := cmd.Args(cmd, nil); err != nil {
		t.Errorf("sponsors should accept zero arguments: %v", err)
	}
	if err := cmd.Args(cmd, []string{"alice", "bob"}); err != nil {
		t.Errorf("sponsors should accept logins: %v", err)
	}
}

func TestNewCmdConfig(t *testing.T) {
	cmd := NewCmdConfig()
	if cmd == nil {
		t.Fatal("NewCmdConfig() returned nil")
	}
	if cmd.Use != "config" {
		t.Errorf("expected Use to be 'config', got %q", cmd.Use)
	}
}

func TestNewCmdVersion(t *testing.T) {
	cmd := NewCmdVersion()
	if cmd == nil {
		t.Fatal("NewCmdVersion() returned nil")
	}
	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", cmd.Use)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	// Just verify it doesn't panic - version info is in package vars
}

func TestOptions(t *testing.T) {
	opts := NewOptions(
		WithFormat("json"),
		WithDryRun(true),
		WithWorkers(4),
		WithTarget("octo", "specs"),
	)
	if opts.Format != "json" {
		t.Errorf("expected Format to be 'json', got %q", opts.Format)
	}
	if !opts.DryRun {
		t.Error("expected DryRun to be set")
	}
	if opts.Owner != "octo" || opts.Repo != "specs" {
		t.Errorf("target override not applied: %q/%q", opts.Owner, opts.Repo)
	}
}
