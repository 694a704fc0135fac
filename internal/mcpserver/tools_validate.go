package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/validator"
)

type validateInput struct {
	Spec           specInput `json:"spec"                      jsonschema:"The OpenAPI document to validate"`
	OpenAPIVersion string    `json:"openapi_version,omitempty" jsonschema:"Required version: 3.0 or 3.1. Defaults to the document's openapi field."`
	NoWarnings     *bool     `json:"no_warnings,omitempty"     jsonschema:"Suppress warnings from output"`
	Offset         int       `json:"offset,omitempty"          jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit          int       `json:"limit,omitempty"           jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Checker string `json:"checker,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

// rawBytes returns the unparsed input; validation reads the document
// itself rather than the decoded model.
func (s specInput) rawBytes() ([]byte, error) {
	if (s.File == "") == (s.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if s.Content != "" {
		if int64(len(s.Content)) > cfg.MaxInlineSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASCOMPOSE_MAX_INLINE_SIZE to increase",
				len(s.Content), cfg.MaxInlineSize)
		}
		return []byte(s.Content), nil
	}
	data, err := os.ReadFile(s.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func toValidateIssues(in []validator.ValidationError) []validateIssue {
	out := makeSlice[validateIssue](len(in))
	for _, e := range in {
		out = append(out, validateIssue{Path: e.Path, Message: e.Message, Checker: e.Checker})
	}
	return out
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	noWarnings := cfg.ValidateNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	data, err := input.Spec.rawBytes()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	v := validator.New()
	v.IncludeWarnings = !noWarnings
	if input.OpenAPIVersion != "" {
		version, err := document.ParseVersion(input.OpenAPIVersion)
		if err != nil {
			return errResult(err), validateOutput{}, nil
		}
		v.Version = version
	}

	result, err := v.ValidateBytes(ctx, data)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:        result.Valid,
		Version:      result.Version,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
		Errors:       paginate(toValidateIssues(result.Errors), input.Offset, input.Limit),
		Warnings:     paginate(toValidateIssues(result.Warnings), input.Offset, input.Limit),
	}
	output.Returned = len(output.Errors) + len(output.Warnings)
	return nil, output, nil
}
