package commands

import (
	"github.com/spf13/cobra"

	oascompose "github.com/erraggy/oascompose"
	"github.com/erraggy/oascompose/internal/cliutil"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliutil.Writef(cmd.OutOrStdout(), "%s\n", oascompose.BuildInfo())
			return nil
		},
	}
}
