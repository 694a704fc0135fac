package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oascompose/joiner"
	"github.com/erraggy/oascompose/parser"
)

type joinInput struct {
	Specs           []specInput `json:"specs"                      jsonschema:"OpenAPI documents to join (minimum 2). Later documents are merged into the first."`
	DuplicatePolicy string      `json:"duplicate_policy,omitempty" jsonschema:"Duplicate (path, method) handling: reject or overwrite or merge"`
	InfoOverride    bool        `json:"info_override,omitempty"    jsonschema:"Let later documents replace info fields of earlier ones"`
	OpenAPIVersion  string      `json:"openapi_version,omitempty"  jsonschema:"Output version: 3.0 or 3.1. Defaults to the version of the first document."`
	Format          string      `json:"format,omitempty"           jsonschema:"Output format: json or yaml"`
	Output          string      `json:"output,omitempty"           jsonschema:"File path to write the joined document. If omitted the result is returned inline."`
}

func handleJoin(_ context.Context, _ *mcp.CallToolRequest, input joinInput) (*mcp.CallToolResult, composeOutput, error) {
	if len(input.Specs) < 2 {
		return errResult(fmt.Errorf("at least 2 specs are required for joining, got %d", len(input.Specs))), composeOutput{}, nil
	}
	if len(input.Specs) > cfg.MaxSources {
		return errResult(fmt.Errorf("too many specs: got %d, maximum is %d; set OASCOMPOSE_MAX_SOURCES to increase",
			len(input.Specs), cfg.MaxSources)), composeOutput{}, nil
	}

	parsed := make([]*parser.ParseResult, 0, len(input.Specs))
	for i, spec := range input.Specs {
		if spec.Name == "" && spec.Content != "" {
			spec.Name = fmt.Sprintf("specs[%d]", i)
		}
		result, err := spec.resolve()
		if err != nil {
			return errResult(fmt.Errorf("spec[%d]: %w", i, err)), composeOutput{}, nil
		}
		parsed = append(parsed, result)
	}

	settings := composeSettings{
		DuplicatePolicy: input.DuplicatePolicy,
		OpenAPIVersion:  input.OpenAPIVersion,
		Format:          input.Format,
		Output:          input.Output,
	}
	policy, docCfg, format, err := settings.resolve(parsed[0].OASVersion)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}

	result, err := joiner.JoinWithOptions(
		joiner.WithParsed(parsed...),
		joiner.WithDuplicatePolicy(policy),
		joiner.WithInfoOverride(input.InfoOverride),
		joiner.WithDocumentConfig(docCfg),
	)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}

	output, err := renderComposed("Joined", len(parsed), result, format, input.Output)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}
	return nil, output, nil
}
