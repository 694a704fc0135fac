package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/cliutil"
	"github.com/erraggy/oascompose/joiner"
	"github.com/erraggy/oascompose/nesting"
	"github.com/erraggy/oascompose/parser"
	"github.com/erraggy/oascompose/serializer"
	"github.com/erraggy/oascompose/validator"
)

// StdinFilePath is the special file path for reading from stdin.
const StdinFilePath = "-"

// FormatSpecPath returns a display-friendly path, "<stdin>" for stdin.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// parseInputs parses paths concurrently and returns the results in input
// order. At most one path may be stdin.
func parseInputs(ctx context.Context, stdin io.Reader, logger *slog.Logger, paths ...string) ([]*parser.ParseResult, error) {
	stdinCount := 0
	for _, p := range paths {
		if p == StdinFilePath {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return nil, newUsageError("stdin (-) can only be used for one input")
	}

	results := make([]*parser.ParseResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			opts := []parser.Option{parser.WithLogger(parser.NewSlogAdapter(logger))}
			if p == StdinFilePath {
				opts = append(opts, parser.WithReader(stdin), parser.WithSourceName(FormatSpecPath(p)))
			} else {
				opts = append(opts, parser.WithFilePath(p))
			}
			result, err := parser.ParseWithOptions(opts...)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", FormatSpecPath(p), err)
			}
			for _, w := range result.Warnings {
				logger.Warn("parse warning", "source", result.SourcePath, "warning", w)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkOutputNotInput rejects an output path that would overwrite an input.
func checkOutputNotInput(output string, inputs ...string) error {
	if output == "" || output == StdinFilePath {
		return nil
	}
	outAbs, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}
	for _, in := range inputs {
		if in == "" || in == StdinFilePath {
			continue
		}
		inAbs, err := filepath.Abs(in)
		if err != nil {
			continue
		}
		if inAbs == outAbs {
			return newUsageError(fmt.Sprintf("output file %s would overwrite input file %s", output, in))
		}
	}
	return nil
}

// joinInputs parses cfg.Inputs and joins them in order.
func joinInputs(ctx context.Context, cfg *ComposeConfig, stdin io.Reader, logger *slog.Logger) (*joiner.JoinResult, error) {
	parsed, err := parseInputs(ctx, stdin, logger, cfg.Inputs...)
	if err != nil {
		return nil, err
	}
	jc, err := cfg.joinerConfig(parsed[0].OASVersion)
	if err != nil {
		return nil, newUsageError(err.Error())
	}
	return joiner.JoinWithOptions(
		joiner.WithConfig(jc),
		joiner.WithParsed(parsed...),
		joiner.WithLogger(logger),
	)
}

// nestInputs parses the parent and every mount, then nests the mounts into
// the parent. Without a parent the mounts are joined into an empty
// document rooted at "/".
func nestInputs(ctx context.Context, cfg *ComposeConfig, stdin io.Reader, logger *slog.Logger) (*joiner.JoinResult, error) {
	paths := make([]string, 0, len(cfg.Mounts)+1)
	if cfg.Parent != "" {
		paths = append(paths, cfg.Parent)
	}
	for _, m := range cfg.Mounts {
		paths = append(paths, m.File)
	}
	parsed, err := parseInputs(ctx, stdin, logger, paths...)
	if err != nil {
		return nil, err
	}

	// The parent, when present, decides the version.
	first := parsed[0].OASVersion
	var parent *document.Document
	if cfg.Parent != "" {
		parent = parsed[0].Document
		parsed = parsed[1:]
	}
	jc, err := cfg.joinerConfig(first)
	if err != nil {
		return nil, newUsageError(err.Error())
	}

	mounts := make([]nesting.Mount, len(cfg.Mounts))
	for i, m := range cfg.Mounts {
		mounts[i] = nesting.Mount{
			Prefix:   m.Prefix,
			Document: parsed[i].Document,
			Tags:     m.Tags,
			Name:     m.Name,
		}
	}
	return nesting.NestWithLogger(jc, logger, parent, mounts...)
}

// compose runs join when inputs are configured and nest otherwise.
func compose(ctx context.Context, cfg *ComposeConfig, stdin io.Reader, logger *slog.Logger) (*joiner.JoinResult, error) {
	if len(cfg.Mounts) > 0 {
		return nestInputs(ctx, cfg, stdin, logger)
	}
	return joinInputs(ctx, cfg, stdin, logger)
}

// writeComposed serializes result, optionally validates it, and writes it
// to cfg.Output or out. Nothing is written when serialization or
// validation fails. A summary goes to errOut.
func writeComposed(ctx context.Context, cfg *ComposeConfig, result *joiner.JoinResult, out, errOut io.Writer, logger *slog.Logger) error {
	format, err := cliutil.ResolveFormat(cfg.Format, cfg.Output, serializer.FormatYAML)
	if err != nil {
		return newUsageError(err.Error())
	}
	data, err := serializer.Marshal(result.Document, format, result.Config)
	if err != nil {
		return fmt.Errorf("serializing result: %w", err)
	}

	if cfg.Validate {
		v := validator.New()
		v.Version = result.Config.OpenAPIVersion
		v.Logger = logger
		report, err := v.ValidateBytes(ctx, data)
		if err != nil {
			return fmt.Errorf("validating result: %w", err)
		}
		if !report.Valid {
			printIssues(errOut, report)
			return fmt.Errorf("%w: %w", ErrInvalidDocument, report.Err())
		}
	}

	written, err := cliutil.WriteOutput(out, cfg.Output, data)
	if err != nil {
		return err
	}

	cliutil.Writef(errOut, "Paths: %d\n", result.Stats.PathCount)
	cliutil.Writef(errOut, "Operations: %d\n", result.Stats.OperationCount)
	cliutil.Writef(errOut, "Schemas: %d\n", result.Stats.SchemaCount)
	cliutil.Writef(errOut, "Collisions: %d\n", result.CollisionCount)
	if len(result.StructuredWarnings) > 0 {
		cliutil.Writef(errOut, "Warnings (%d):\n", len(result.StructuredWarnings))
		for _, w := range result.StructuredWarnings {
			cliutil.Writef(errOut, "  [%s] %s: %s\n", w.Category, w.Location(), w.Message)
		}
	}
	if written != "" {
		cliutil.Writef(errOut, "Output: %s (OpenAPI %s, %s)\n", written, result.Config.OpenAPIVersion.Full(), format)
	}
	return nil
}

func printIssues(w io.Writer, report *validator.ValidationResult) {
	if len(report.Errors) > 0 {
		cliutil.Writef(w, "Errors (%d):\n", report.ErrorCount)
		for _, e := range report.Errors {
			cliutil.Writef(w, "  %s\n", e.String())
		}
	}
	if len(report.Warnings) > 0 {
		cliutil.Writef(w, "Warnings (%d):\n", report.WarningCount)
		for _, e := range report.Warnings {
			cliutil.Writef(w, "  %s\n", e.String())
		}
	}
}
