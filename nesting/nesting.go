package nesting

import (
	"fmt"
	"log/slog"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/pathutil"
	"github.com/erraggy/oascompose/joiner"
	"github.com/erraggy/oascompose/oaserrors"
)

// nestingLogger is used when no logger is configured.
var nestingLogger = slog.Default()

// NormalizePrefix returns prefix with a leading slash, no trailing slash and
// no repeated slashes. "" and "/" both normalize to "", meaning no prefix.
func NormalizePrefix(prefix string) string {
	return pathutil.NormalizePrefix(prefix)
}

// JoinPath mounts path under prefix. A "/" path under a non-empty prefix
// yields the prefix itself, so "/v1" + "/" is "/v1" rather than "/v1/".
func JoinPath(prefix, path string) string {
	return pathutil.JoinPath(prefix, path)
}

// RouteToTemplate converts router segments such as ":id" or "*rest" into
// OpenAPI placeholders.
func RouteToTemplate(route string) string {
	return pathutil.RouteToTemplate(route)
}

// TemplateToRoute converts OpenAPI placeholders into ":name" router segments.
func TemplateToRoute(path string) string {
	return pathutil.TemplateToRoute(path)
}

// Relocate returns a copy of child with every operation moved under prefix
// and extraTags added to every operation. Schemas, security schemes and the
// rest of the document are copied unchanged. child is never modified.
//
// An empty or "/" prefix leaves the paths as they are.
func Relocate(child *document.Document, prefix string, extraTags ...string) (*document.Document, error) {
	if child == nil {
		return nil, &oaserrors.ConfigError{Option: "child document", Message: "cannot be nil"}
	}

	out := child.Clone()
	out.Operations = document.NewTable(pathutil.JoinPath(prefix, child.Operations.Root()))
	for op := range child.Operations.Iterate(document.OrderInsertion) {
		moved := document.CopyOperation(op)
		moved.Path = pathutil.JoinPath(prefix, op.Path)
		moved.AddTags(extraTags...)
		if _, err := out.Operations.Insert(moved, document.PolicyReject); err != nil {
			return nil, fmt.Errorf("nesting: relocating %s %s under %q: %w", op.Method, op.Path, prefix, err)
		}
	}
	for _, tag := range extraTags {
		if tag != "" {
			out.AddTag(document.Tag{Name: tag})
		}
	}
	return out, nil
}

// Mount is a child document to be nested under Prefix.
type Mount struct {
	// Prefix is the path the child is mounted under.
	Prefix string
	// Document is the child. It is never modified.
	Document *document.Document
	// Tags are added to every operation of the child.
	Tags []string
	// Name identifies the child in warnings and conflict errors.
	// Defaults to the normalized prefix.
	Name string
}

func (m Mount) sourceName(i int) string {
	if m.Name != "" {
		return m.Name
	}
	if p := pathutil.NormalizePrefix(m.Prefix); p != "" {
		return p
	}
	return fmt.Sprintf("mount[%d]", i+1)
}

// Nest relocates every mount and joins the results into parent using the
// default joiner configuration.
func Nest(parent *document.Document, mounts ...Mount) (*joiner.JoinResult, error) {
	return NestWithConfig(joiner.DefaultConfig(), parent, mounts...)
}

// NestWithConfig relocates every mount and joins the results into parent.
// Schema name clashes between children surface as
// *oaserrors.SchemaConflictError from the join.
func NestWithConfig(cfg joiner.JoinerConfig, parent *document.Document, mounts ...Mount) (*joiner.JoinResult, error) {
	return NestWithLogger(cfg, nil, parent, mounts...)
}

// NestWithLogger is NestWithConfig with an explicit logger for relocation
// and join diagnostics. A nil logger uses the package logger.
func NestWithLogger(cfg joiner.JoinerConfig, logger *slog.Logger, parent *document.Document, mounts ...Mount) (*joiner.JoinResult, error) {
	if logger == nil {
		logger = nestingLogger
	}
	sources := make([]joiner.Source, 0, len(mounts))
	for i, m := range mounts {
		relocated, err := Relocate(m.Document, m.Prefix, m.Tags...)
		if err != nil {
			return nil, err
		}
		name := m.sourceName(i)
		logger.Debug("relocated child document",
			"name", name,
			"prefix", pathutil.NormalizePrefix(m.Prefix),
			"operations", relocated.Operations.Len(),
		)
		sources = append(sources, joiner.Source{Name: name, Document: relocated})
	}
	j := joiner.New(cfg)
	j.SetLogger(logger)
	return j.JoinSources(parent, sources...)
}
