package commands

import (
	"context"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/oascompose/docserver"
	"github.com/erraggy/oascompose/internal/cliutil"
)

// serveRunner executes serve. Tests replace it to capture the resolved
// configuration.
var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags] <file> [file...]",
		Short: "Compose documents and serve them with interactive viewers",
		Long: "Serve joins its input files (or nests the mounts from the config file), then " +
			"serves the result as JSON and YAML together with Swagger UI, Redoc, RapiDoc and " +
			"Scalar pages until interrupted.",
		Example: strings.TrimSpace(`  oascompose serve --addr :8080 --base-path /docs users.yaml billing.yaml
  oascompose serve --viewer redoc --viewer scalar api.yaml`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveComposeConfig(cmd, args)
			if err != nil {
				return err
			}
			return serveRunner(cmd, cfg)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", "", "Listen address; defaults to 127.0.0.1:8080")
	flags.String("base-path", "", "Path prefix for every route; defaults to /")
	flags.StringSlice("viewer", nil, "Viewers to serve (swagger-ui|redoc|rapidoc|scalar); defaults to all")
	flags.String("spec-url", "", "URL the viewer pages load the document from")
	flags.String("title", "", "HTML page title; defaults to the document title")
	flags.Bool("no-yaml", false, "Do not serve openapi.yaml")
	addComposeFlags(flags)
	return cmd
}

func runServe(cmd *cobra.Command, cfg *ComposeConfig) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := commandLogger(cmd)
	// A single input is served as-is through a one-source join.
	result, err := compose(ctx, cfg, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}
	sc, err := cfg.docserverConfig()
	if err != nil {
		return newUsageError(err.Error())
	}
	srv, err := docserver.New(result.Freeze(), sc, docserver.WithLogger(logger))
	if err != nil {
		return err
	}
	errOut := cmd.ErrOrStderr()
	return srv.Serve(ctx, cfg.Serve.Addr, func(addr net.Addr) {
		base := srv.Config().BasePath
		cliutil.Writef(errOut, "Serving %s (%d paths, %d operations) at http://%s%s\n",
			result.Document.Info.Title, result.Stats.PathCount, result.Stats.OperationCount,
			addr, strings.TrimSuffix(base, "/")+"/")
	})
}
