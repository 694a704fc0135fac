package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func newNestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nest [flags] --mount PREFIX=FILE[,TAG...] [--mount ...]",
		Short: "Mount OpenAPI documents under path prefixes",
		Long: "Nest relocates every mounted document under its prefix, tags its operations, " +
			"and joins the results into the parent document. Without --parent the mounts " +
			"are joined into an empty document.",
		Example: strings.TrimSpace(`  oascompose nest --parent root.yaml --mount /api/users=users.yaml,users --mount /api/billing=billing.yaml
  oascompose --config compose.yaml nest -o api.json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveComposeConfig(cmd, nil)
			if err != nil {
				return err
			}
			inputs := []string{cfg.Parent}
			for _, m := range cfg.Mounts {
				inputs = append(inputs, m.File)
			}
			if err := checkOutputNotInput(cfg.Output, inputs...); err != nil {
				return err
			}
			// Inputs only apply to join.
			cfg.Inputs = nil
			return composeRunner(cmd, cfg)
		},
	}
	flags := cmd.Flags()
	flags.String("parent", "", "Parent document the mounts are nested into")
	flags.StringArray("mount", nil, "Child document as PREFIX=FILE[,TAG...]; repeatable")
	addComposeFlags(flags)
	addOutputFlags(flags)
	return cmd
}
