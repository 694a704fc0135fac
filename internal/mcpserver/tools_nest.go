package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/joiner"
	"github.com/erraggy/oascompose/nesting"
)

type mountInput struct {
	Prefix string    `json:"prefix"          jsonschema:"Path prefix to mount the document under, e.g. /api/users"`
	Spec   specInput `json:"spec"            jsonschema:"The OpenAPI document to mount"`
	Tags   []string  `json:"tags,omitempty"  jsonschema:"Tags added to every operation of the mounted document"`
	Name   string    `json:"name,omitempty"  jsonschema:"Name reported in warnings and conflict errors. Defaults to the prefix."`
}

type nestInput struct {
	Parent          *specInput   `json:"parent,omitempty"           jsonschema:"Optional parent document the mounts are joined into"`
	Mounts          []mountInput `json:"mounts"                     jsonschema:"Documents to mount (minimum 1)"`
	DuplicatePolicy string       `json:"duplicate_policy,omitempty" jsonschema:"Duplicate (path, method) handling: reject or overwrite or merge"`
	OpenAPIVersion  string       `json:"openapi_version,omitempty"  jsonschema:"Output version: 3.0 or 3.1. Defaults to the version of the parent, else the first mount."`
	Format          string       `json:"format,omitempty"           jsonschema:"Output format: json or yaml"`
	Output          string       `json:"output,omitempty"           jsonschema:"File path to write the composed document. If omitted the result is returned inline."`
}

func handleNest(_ context.Context, _ *mcp.CallToolRequest, input nestInput) (*mcp.CallToolResult, composeOutput, error) {
	if len(input.Mounts) == 0 {
		return errResult(errors.New("at least 1 mount is required")), composeOutput{}, nil
	}
	if len(input.Mounts) > cfg.MaxSources {
		return errResult(fmt.Errorf("too many mounts: got %d, maximum is %d; set OASCOMPOSE_MAX_SOURCES to increase",
			len(input.Mounts), cfg.MaxSources)), composeOutput{}, nil
	}

	var (
		parent *document.Document
		first  document.OASVersion
	)
	if input.Parent != nil {
		spec := *input.Parent
		if spec.Name == "" && spec.Content != "" {
			spec.Name = "parent"
		}
		result, err := spec.resolve()
		if err != nil {
			return errResult(fmt.Errorf("parent: %w", err)), composeOutput{}, nil
		}
		parent = result.Document
		first = result.OASVersion
	}

	mounts := make([]nesting.Mount, 0, len(input.Mounts))
	for i, m := range input.Mounts {
		if m.Prefix == "" {
			return errResult(fmt.Errorf("mounts[%d]: prefix is required", i)), composeOutput{}, nil
		}
		result, err := m.Spec.resolve()
		if err != nil {
			return errResult(fmt.Errorf("mounts[%d]: %w", i, err)), composeOutput{}, nil
		}
		if first == "" {
			first = result.OASVersion
		}
		mounts = append(mounts, nesting.Mount{Prefix: m.Prefix, Document: result.Document, Tags: m.Tags, Name: m.Name})
	}

	settings := composeSettings{
		DuplicatePolicy: input.DuplicatePolicy,
		OpenAPIVersion:  input.OpenAPIVersion,
		Format:          input.Format,
		Output:          input.Output,
	}
	policy, docCfg, format, err := settings.resolve(first)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}

	joinCfg := joiner.DefaultConfig()
	joinCfg.DuplicatePolicy = policy
	joinCfg.Document = docCfg
	result, err := nesting.NestWithConfig(joinCfg, parent, mounts...)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}

	output, err := renderComposed("Nested", len(mounts), result, format, input.Output)
	if err != nil {
		return errResult(err), composeOutput{}, nil
	}
	return nil, output, nil
}
