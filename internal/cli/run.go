package cli

import (
	"github.com/spf13/cobra"
)

// RunOptions holds flags for the run command. Flags left unset keep the
// configured values.
type RunOptions struct {
	*RootOptions
	Videos int
	Frames int
	Purge  bool
	Seed   int64
}

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Insert a fixture batch, verify it and optionally purge it",
		Long: `Insert a fixture batch, verify it and optionally purge it.

Example:
  fixtures run
  fixtures run --videos 20 --frames 100 --purge
  DB_TYPE=sqlite DB_PATH=/tmp/fixtures.db fixtures run --seed 42 --purge`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixtures(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Videos, "videos", 0, "number of videos to insert")
	cmd.Flags().IntVar(&opts.Frames, "frames", 0, "frames to insert per video")
	cmd.Flags().BoolVar(&opts.Purge, "purge", false, "delete all fixture data after verifying")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible fixtures (0 = time based); a seed repeats its IDs, so rerun it with --purge or against a fresh database")

	return cmd
}

func runFixtures(cmd *cobra.Command, opts *RunOptions) error {
	flags := cmd.Flags()
	fx := &opts.Config.Fixtures
	if flags.Lookup("videos") != nil && flags.Changed("videos") {
		fx.Videos = opts.Videos
	}
	if flags.Lookup("frames") != nil && flags.Changed("frames") {
		fx.FramesPerVideo = opts.Frames
	}
	if flags.Lookup("purge") != nil && flags.Changed("purge") {
		fx.Purge = opts.Purge
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		fx.Seed = opts.Seed
	}

	h, err := opts.newHarness(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return h.Run(cmd.Context())
}
