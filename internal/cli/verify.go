package cli

import (
	"github.com/spf13/cobra"
)

func NewVerifyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "verify",
		Short:        "Run the verification queries against existing data",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.newHarness(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.Connect(cmd.Context()); err != nil {
				return err
			}
			_, err = h.Verify(cmd.Context())
			return err
		},
	}
}

func NewPurgeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "purge",
		Short:        "Delete every video and frame row",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.newHarness(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.Connect(cmd.Context()); err != nil {
				return err
			}
			return h.Purge(cmd.Context())
		},
	}
}
