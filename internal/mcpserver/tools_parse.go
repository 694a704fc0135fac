package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oascompose/parser"
	"github.com/erraggy/oascompose/serializer"
)

type parseInput struct {
	Spec specInput `json:"spec"           jsonschema:"The OpenAPI document to parse"`
	Full bool      `json:"full,omitempty" jsonschema:"Also return the normalized document in its source version and format"`
}

type parseSummaryServer struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type parseOutput struct {
	Version        string               `json:"version"`
	Title          string               `json:"title"`
	Description    string               `json:"description,omitempty"`
	PathCount      int                  `json:"path_count"`
	OperationCount int                  `json:"operation_count"`
	SchemaCount    int                  `json:"schema_count"`
	Servers        []parseSummaryServer `json:"servers,omitempty"`
	Tags           []string             `json:"tags,omitempty"`
	Format         string               `json:"format"`
	Warnings       []string             `json:"warnings,omitempty"`
	FullDocument   string               `json:"full_document,omitempty"`
}

func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	doc := result.Document
	stats := doc.Stats()
	output := parseOutput{
		Version:        result.Version,
		Title:          doc.Info.Title,
		Description:    doc.Info.Description,
		PathCount:      stats.PathCount,
		OperationCount: stats.OperationCount,
		SchemaCount:    stats.SchemaCount,
		Format:         string(result.SourceFormat),
		Warnings:       result.Warnings,
	}
	output.Servers = makeSlice[parseSummaryServer](len(doc.Servers))
	for _, s := range doc.Servers {
		output.Servers = append(output.Servers, parseSummaryServer{URL: s.URL, Description: s.Description})
	}
	output.Tags = makeSlice[string](len(doc.Tags))
	for _, tag := range doc.Tags {
		output.Tags = append(output.Tags, tag.Name)
	}

	if input.Full {
		format := serializer.FormatYAML
		if result.SourceFormat == parser.SourceFormatJSON {
			format = serializer.FormatJSON
		}
		data, err := serializer.Marshal(doc, format, result.Config())
		if err != nil {
			return errResult(err), parseOutput{}, nil
		}
		output.FullDocument = string(data)
	}
	return nil, output, nil
}
