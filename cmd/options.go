package cmd

// Options holds the shared command-line options for the sepwatch CLI.
type Options struct {
	Format    string
	DryRun    bool
	Verbosity int
	Workers   int

	// Target overrides; empty means use config
	Owner string
	Repo  string
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithDryRun enables dry-run mode: decisions are computed and reported
// but nothing is changed on the tracker.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithWorkers sets the number of concurrent fetch workers.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithTarget overrides the target repository.
func WithTarget(owner, repo string) Option {
	return func(o *Options) {
		o.Owner = owner
		o.Repo = repo
	}
}
