package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kdimtricp/vshazam-fixtures/internal/config"
	"github.com/kdimtricp/vshazam-fixtures/internal/harness"
	"github.com/kdimtricp/vshazam-fixtures/internal/report"
)

// RootOptions holds global flags and the configuration they resolve to.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	ReportDir  string

	Config config.Config
	Logger *logrus.Logger
}

// NewRootCommand creates the fixtures CLI. Without a subcommand it behaves
// like "run".
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	runOpts := &RunOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Insert and verify synthetic video/frame fixtures",
		Long: `Connects to the configured database, makes sure the videos and frames
tables exist, inserts a batch of synthetic fixtures and prints what a fixed
set of verification queries sees.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixtures(cmd, runOpts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config (defaults are used when empty)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.ReportDir, "report-dir", "", "also write verification reports to this directory")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))

	return cmd
}

// resolve layers config file, environment and flags, in that order.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if o.ReportDir != "" {
		cfg.ReportDir = o.ReportDir
	}

	o.Config = cfg
	o.Logger = config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	return nil
}

func (o *RootOptions) newHarness(out io.Writer) (*harness.Harness, error) {
	if err := o.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []harness.Option{harness.WithOutput(out)}
	if o.Config.ReportDir != "" {
		storage, err := report.NewLocalStorage(o.Config.ReportDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, harness.WithReportStorage(storage))
	}
	return harness.New(o.Config, o.Logger, opts...), nil
}
