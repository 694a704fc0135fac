package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	oascompose "github.com/erraggy/oascompose"
	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/cliutil"
	"github.com/erraggy/oascompose/internal/severity"
	"github.com/erraggy/oascompose/validator"
)

// Output formats for the validate report.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFlags contains flags for the validate command.
type ValidateFlags struct {
	OpenAPIVersion string
	NoWarnings     bool
	Format         string
	Quiet          bool
}

type validateReport struct {
	Valid        bool          `json:"valid" yaml:"valid"`
	Version      string        `json:"version" yaml:"version"`
	ErrorCount   int           `json:"errorCount" yaml:"errorCount"`
	WarningCount int           `json:"warningCount" yaml:"warningCount"`
	Errors       []reportIssue `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings     []reportIssue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type reportIssue struct {
	Path     string            `json:"path" yaml:"path"`
	Message  string            `json:"message" yaml:"message"`
	Severity severity.Severity `json:"severity" yaml:"severity"`
	Checker  string            `json:"checker,omitempty" yaml:"checker,omitempty"`
	SpecRef  string            `json:"specRef,omitempty" yaml:"specRef,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var flags ValidateFlags
	cmd := &cobra.Command{
		Use:   "validate [flags] <file|->",
		Short: "Validate an OpenAPI document",
		Long: "Validate checks a JSON or YAML document against OpenAPI 3.0 or 3.1. " +
			"The version is taken from the document unless --openapi-version is set.",
		Example: strings.TrimSpace(`  oascompose validate api.yaml
  oascompose validate --format json --no-warnings api.json
  oascompose join a.yaml b.yaml | oascompose validate -`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.OpenAPIVersion, "openapi-version", "", "Version to validate against (3.0|3.1)")
	cmd.Flags().BoolVar(&flags.NoWarnings, "no-warnings", false, "Suppress warnings")
	cmd.Flags().StringVar(&flags.Format, "format", FormatText, "Report format (text|json|yaml)")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Only set the exit status")
	return cmd
}

func runValidate(cmd *cobra.Command, specPath string, flags ValidateFlags) error {
	format := strings.ToLower(strings.TrimSpace(flags.Format))
	switch format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return newUsageError(fmt.Sprintf("validate: unsupported --format %q (allowed: text, json, yaml)", flags.Format))
	}
	var version document.OASVersion
	if flags.OpenAPIVersion != "" {
		v, err := document.ParseVersion(flags.OpenAPIVersion)
		if err != nil {
			return newUsageError(fmt.Sprintf("validate: %v", err))
		}
		version = v
	}

	var data []byte
	var err error
	if specPath == StdinFilePath {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(specPath)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", FormatSpecPath(specPath), err)
	}

	v := validator.New()
	v.Version = version
	v.IncludeWarnings = !flags.NoWarnings
	v.Logger = commandLogger(cmd)
	ctx := cmd.Context()
	result, err := v.ValidateBytes(ctx, data)
	if err != nil {
		return fmt.Errorf("validating %s: %w", FormatSpecPath(specPath), err)
	}

	if !flags.Quiet {
		out := cmd.OutOrStdout()
		switch format {
		case FormatJSON, FormatYAML:
			if err := outputStructured(out, buildReport(result), format); err != nil {
				return err
			}
		default:
			printValidateText(out, specPath, result)
		}
	}
	if !result.Valid {
		return fmt.Errorf("%w: %d error(s) in %s", ErrInvalidDocument, result.ErrorCount, FormatSpecPath(specPath))
	}
	return nil
}

func printValidateText(w io.Writer, specPath string, result *validator.ValidationResult) {
	cliutil.Writef(w, "OpenAPI Document Validator\n")
	cliutil.Writef(w, "==========================\n\n")
	cliutil.Writef(w, "oascompose version: %s\n", oascompose.Version())
	cliutil.Writef(w, "Specification: %s\n", FormatSpecPath(specPath))
	cliutil.Writef(w, "OAS Version: %s\n", result.Version)
	if result.SchemaCount > 0 {
		cliutil.Writef(w, "Schemas: %d\n", result.SchemaCount)
	}
	cliutil.Writef(w, "Duration: %v\n\n", result.Duration)
	printIssues(w, result)
	if result.Valid {
		cliutil.Writef(w, "✓ Document is valid\n")
	} else {
		cliutil.Writef(w, "✗ Document is invalid\n")
	}
}

func buildReport(result *validator.ValidationResult) validateReport {
	convert := func(in []validator.ValidationError) []reportIssue {
		if len(in) == 0 {
			return nil
		}
		out := make([]reportIssue, len(in))
		for i, e := range in {
			out[i] = reportIssue{
				Path:     e.Path,
				Message:  e.Message,
				Severity: e.Severity,
				Checker:  e.Checker,
				SpecRef:  e.SpecRef,
			}
		}
		return out
	}
	return validateReport{
		Valid:        result.Valid,
		Version:      result.Version,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
		Errors:       convert(result.Errors),
		Warnings:     convert(result.Warnings),
	}
}

// outputStructured writes data as indented JSON or YAML.
func outputStructured(w io.Writer, data any, format string) error {
	var out []byte
	var err error
	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
		out = append(out, '\n')
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}
