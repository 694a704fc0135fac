package mcpserver

import (
	"io"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/cliutil"
	"github.com/erraggy/oascompose/joiner"
	"github.com/erraggy/oascompose/serializer"
)

// composeSettings are the output choices shared by join and nest.
type composeSettings struct {
	DuplicatePolicy string
	OpenAPIVersion  string
	Format          string
	Output          string
}

// resolve applies config defaults. first is the version of the first
// input, used when neither the call nor the environment picks one.
func (s composeSettings) resolve(first document.OASVersion) (document.DuplicatePolicy, document.Config, serializer.Format, error) {
	policy := cfg.DuplicatePolicy
	if s.DuplicatePolicy != "" {
		p, err := document.ParseDuplicatePolicy(s.DuplicatePolicy)
		if err != nil {
			return "", document.Config{}, "", err
		}
		policy = p
	}

	docCfg := document.DefaultConfig()
	switch {
	case s.OpenAPIVersion != "":
		v, err := document.ParseVersion(s.OpenAPIVersion)
		if err != nil {
			return "", document.Config{}, "", err
		}
		docCfg.OpenAPIVersion = v
	case cfg.OpenAPIVersion != "":
		docCfg.OpenAPIVersion = cfg.OpenAPIVersion
	case first != "":
		docCfg.OpenAPIVersion = first
	}

	fallback := serializer.Format(cfg.OutputFormat)
	format, err := cliutil.ResolveFormat(s.Format, s.Output, fallback)
	if err != nil {
		return "", document.Config{}, "", err
	}
	return policy, docCfg, format, nil
}

type composeWarning struct {
	Category string `json:"category"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Source   string `json:"source,omitempty"`
	Severity string `json:"severity"`
}

type composeOutput struct {
	SourceCount    int              `json:"source_count"`
	Version        string           `json:"version"`
	PathCount      int              `json:"path_count"`
	OperationCount int              `json:"operation_count"`
	SchemaCount    int              `json:"schema_count"`
	CollisionCount int              `json:"collision_count"`
	WarningCount   int              `json:"warning_count"`
	Warnings       []composeWarning `json:"warnings,omitempty"`
	WrittenTo      string           `json:"written_to,omitempty"`
	Document       string           `json:"document,omitempty"`
	Summary        string           `json:"summary"`
}

// renderComposed serializes a join result and either writes it to output
// or returns it inline.
func renderComposed(verb string, sources int, result *joiner.JoinResult, format serializer.Format, output string) (composeOutput, error) {
	out := composeOutput{
		SourceCount:    sources,
		Version:        result.Config.OpenAPIVersion.Full(),
		PathCount:      result.Stats.PathCount,
		OperationCount: result.Stats.OperationCount,
		SchemaCount:    result.Stats.SchemaCount,
		CollisionCount: result.CollisionCount,
		WarningCount:   len(result.StructuredWarnings),
	}
	out.Warnings = makeSlice[composeWarning](len(result.StructuredWarnings))
	for _, w := range result.StructuredWarnings {
		out.Warnings = append(out.Warnings, composeWarning{
			Category: string(w.Category),
			Path:     w.Path,
			Message:  w.Message,
			Source:   w.SourceFile,
			Severity: w.Severity.String(),
		})
	}

	data, err := serializer.Marshal(result.Document, format, result.Config)
	if err != nil {
		return composeOutput{}, err
	}
	if output != "" && output != "-" {
		written, err := cliutil.WriteOutput(io.Discard, output, data)
		if err != nil {
			return composeOutput{}, err
		}
		out.WrittenTo = written
	} else {
		out.Document = string(data)
	}

	out.Summary = verb + " " + formatCount(sources, "document") + " into an OpenAPI " + out.Version + " document with " +
		formatCount(out.PathCount, "path") + ", " + formatCount(out.OperationCount, "operation") + " and " +
		formatCount(out.SchemaCount, "schema") + "."
	if out.CollisionCount > 0 {
		out.Summary += " " + formatCount(out.CollisionCount, "collision") + " resolved."
	}
	if out.WarningCount > 0 {
		out.Summary += " " + formatCount(out.WarningCount, "warning") + "."
	}
	return out, nil
}
