package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// composeRunner executes join and nest. Tests replace it to capture the
// resolved configuration.
var composeRunner = runCompose

func newJoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join [flags] <file1> <file2> [file3...]",
		Short: "Join multiple OpenAPI documents into one",
		Long: "Join merges OpenAPI documents in order. Operations present in more than one " +
			"document are resolved by the duplicate policy; structurally different schemas " +
			"or security schemes with the same name are always an error.",
		Example: strings.TrimSpace(`  oascompose join -o api.yaml users.yaml billing.yaml
  oascompose join --duplicate-policy reject --openapi-version 3.0 users.json billing.json
  cat users.yaml | oascompose join - billing.yaml`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveComposeConfig(cmd, args)
			if err != nil {
				return err
			}
			if err := checkOutputNotInput(cfg.Output, cfg.Inputs...); err != nil {
				return err
			}
			// Mounts only apply to nest.
			cfg.Parent, cfg.Mounts = "", nil
			return composeRunner(cmd, cfg)
		},
	}
	addComposeFlags(cmd.Flags())
	addOutputFlags(cmd.Flags())
	return cmd
}

func runCompose(cmd *cobra.Command, cfg *ComposeConfig) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := commandLogger(cmd)
	result, err := compose(ctx, cfg, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}
	return writeComposed(ctx, cfg, result, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}
