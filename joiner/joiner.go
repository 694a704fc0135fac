package joiner

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/oaserrors"
)

// joinerLogger is used when no logger is configured.
// Tests can replace this with a discard logger to suppress expected output.
var joinerLogger = slog.Default()

// JoinerConfig configures how documents are joined.
type JoinerConfig struct {
	// DuplicatePolicy resolves a (path, method) pair present in more than one
	// document. The default merges tags and responses.
	DuplicatePolicy document.DuplicatePolicy
	// InfoOverride lets later sources replace non-empty info fields.
	// By default the first non-empty info block wins.
	InfoOverride bool
	// MountRoot is the root of the result when no base document is given.
	MountRoot string
	// SkipReferenceValidation disables the dangling reference check.
	// Only intermediate joins whose missing schemas arrive later should set it.
	SkipReferenceValidation bool
	// Document carries the version and ordering choices recorded on the result.
	Document document.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() JoinerConfig {
	return JoinerConfig{
		DuplicatePolicy: document.PolicyMergeTagsAndResponses,
		MountRoot:       "/",
		Document:        document.DefaultConfig(),
	}
}

// Validate checks the configuration.
func (c JoinerConfig) Validate() error {
	if !c.DuplicatePolicy.Valid() {
		return &oaserrors.ConfigError{Option: "duplicate policy", Value: c.DuplicatePolicy,
			Message: fmt.Sprintf("must be one of %v", document.ValidDuplicatePolicies())}
	}
	return c.Document.Validate()
}

// Source is a named input document. The name appears in warnings and
// conflict errors.
type Source struct {
	Name     string
	Document *document.Document
}

// Joiner assembles documents.
//
// Concurrency: a Joiner holds no mutable state between calls, but the
// documents passed to it must not be mutated concurrently with a join.
type Joiner struct {
	config JoinerConfig
	logger *slog.Logger
}

// New creates a Joiner with the provided configuration.
func New(config JoinerConfig) *Joiner {
	return &Joiner{config: config}
}

// Config returns the joiner's configuration.
func (j *Joiner) Config() JoinerConfig {
	return j.config
}

// SetLogger sets the logger for join diagnostics. Nil restores the
// package logger.
func (j *Joiner) SetLogger(l *slog.Logger) {
	j.logger = l
}

func (j *Joiner) log() *slog.Logger {
	if j.logger != nil {
		return j.logger
	}
	return joinerLogger
}

// JoinResult contains the joined document and metadata.
type JoinResult struct {
	// Document is the assembled document. It shares no state with the inputs.
	Document *document.Document
	// Config is the document configuration for serializing the result.
	Config document.Config
	// StructuredWarnings lists non-fatal events such as merged operations.
	StructuredWarnings JoinWarnings
	// CollisionCount counts (path, method) pairs that were merged or replaced.
	CollisionCount int
	// Stats summarizes the assembled document.
	Stats document.Stats
}

// AddWarning appends a structured warning.
func (r *JoinResult) AddWarning(w *JoinWarning) {
	r.StructuredWarnings = append(r.StructuredWarnings, w)
}

// Warnings returns the warning messages.
func (r *JoinResult) Warnings() []string {
	return r.StructuredWarnings.Strings()
}

// Freeze returns a read-only handle on the result for concurrent serving.
func (r *JoinResult) Freeze() *document.Frozen {
	return document.Freeze(r.Document, r.Config)
}

// Join merges sources into base in order. The sources are named
// "source[1]", "source[2]" and so on.
func (j *Joiner) Join(base *document.Document, sources ...*document.Document) (*JoinResult, error) {
	named := make([]Source, len(sources))
	for i, d := range sources {
		named[i] = Source{Name: fmt.Sprintf("source[%d]", i+1), Document: d}
	}
	return j.JoinSources(base, named...)
}

// JoinSources merges sources into base in order.
//
// The join is atomic: on error no partial result is returned, and neither
// base nor any source is ever modified. A nil base starts from an empty
// document mounted at the configured MountRoot.
func (j *Joiner) JoinSources(base *document.Document, sources ...Source) (*JoinResult, error) {
	if err := j.config.Validate(); err != nil {
		return nil, err
	}

	var out *document.Document
	if base != nil {
		out = base.Clone()
	} else {
		out = document.NewWithRoot(document.Info{}, j.config.MountRoot)
	}
	result := &JoinResult{Config: j.config.Document}
	// owner remembers which source first contributed each operation.
	owner := make(map[string]string)
	for op := range out.Operations.Iterate(document.OrderInsertion) {
		owner[opKey(op)] = "base"
	}

	for i, src := range sources {
		if src.Document == nil {
			return nil, &oaserrors.ConfigError{Option: "source", Value: src.Name, Message: "document is nil"}
		}
		if IsGenericSourceName(src.Name) {
			result.AddWarning(NewGenericSourceNameWarning(src.Name, i+1))
		}
		if err := j.mergeSource(out, src, result, owner); err != nil {
			j.log().Debug("join failed", "source", src.Name, "error", err)
			return nil, err
		}
	}

	if !j.config.SkipReferenceValidation {
		if err := out.ValidateReferences(); err != nil {
			return nil, err
		}
	}

	result.Document = out
	result.Stats = out.Stats()
	j.log().Debug("joined documents",
		"sources", len(sources),
		"paths", result.Stats.PathCount,
		"operations", result.Stats.OperationCount,
		"schemas", result.Stats.SchemaCount,
		"collisions", result.CollisionCount,
		"warnings", len(result.StructuredWarnings),
	)
	return result, nil
}

func opKey(op *document.OperationEntry) string {
	return string(op.Method) + " " + op.Path
}

func (j *Joiner) mergeSource(out *document.Document, src Source, result *JoinResult, owner map[string]string) error {
	doc := src.Document

	for name, s := range doc.Schemas.All(document.OrderInsertion) {
		known := out.Schemas.Has(name)
		if err := out.RegisterSchema(document.SchemaEntry{Name: name, Schema: s}); err != nil {
			return withSource(err, src.Name)
		}
		if known {
			result.AddWarning(NewSchemaDedupWarning(name, "schemas", src.Name))
		}
	}

	for name, r := range doc.Responses.All(document.OrderInsertion) {
		known := out.Responses.Has(name)
		if err := out.RegisterResponse(name, r); err != nil {
			return withSource(err, src.Name)
		}
		if known {
			result.AddWarning(NewSchemaDedupWarning(name, "responses", src.Name))
		}
	}

	for op := range doc.Operations.Iterate(document.OrderInsertion) {
		outcome, err := out.Operations.Insert(op, j.config.DuplicatePolicy)
		if err != nil {
			return fmt.Errorf("joiner: %s: %w", src.Name, err)
		}
		key := opKey(op)
		switch outcome {
		case document.Merged:
			result.CollisionCount++
			result.AddWarning(NewOperationMergedWarning(op.Path, string(op.Method), owner[key], src.Name))
		case document.Replaced:
			result.CollisionCount++
			result.AddWarning(NewOperationReplacedWarning(op.Path, string(op.Method), owner[key], src.Name))
			owner[key] = src.Name
		default:
			owner[key] = src.Name
		}
	}

	for _, tag := range doc.Tags {
		existing, _ := out.Tag(tag.Name)
		if !out.AddTag(tag) {
			result.AddWarning(NewTagDescriptionWarning(tag.Name, existing.Description, tag.Description, src.Name))
		}
	}

	for name, s := range doc.SecuritySchemes.All(document.OrderInsertion) {
		known := out.SecuritySchemes.Has(name)
		if err := out.RegisterSecurityScheme(name, s); err != nil {
			return withSource(err, src.Name)
		}
		if known {
			result.AddWarning(NewSchemaDedupWarning(name, "securitySchemes", src.Name))
		}
	}

	for _, server := range doc.Servers {
		if !slices.Contains(out.Servers, server) {
			out.Servers = append(out.Servers, server)
		}
	}
	for _, req := range doc.Security {
		if !slices.ContainsFunc(out.Security, func(r document.SecurityRequirement) bool {
			return maps.EqualFunc(r, req, func(a, b []string) bool { return slices.Equal(a, b) })
		}) {
			out.Security = append(out.Security, cloneRequirement(req))
		}
	}
	for k, v := range doc.Extensions {
		if _, ok := out.Extensions[k]; ok {
			continue
		}
		if out.Extensions == nil {
			out.Extensions = make(map[string]any)
		}
		out.Extensions[k] = v
	}

	j.mergeInfo(out, doc.Info, src.Name, result)
	return nil
}

func (j *Joiner) mergeInfo(out *document.Document, info document.Info, source string, result *JoinResult) {
	if info.IsZero() {
		return
	}
	if out.Info.IsZero() {
		out.Info = cloneInfo(info)
		return
	}
	if out.Info.Title == info.Title && out.Info.Version == info.Version {
		return
	}
	first := out.Info.Title + " " + out.Info.Version
	second := info.Title + " " + info.Version
	if j.config.InfoOverride {
		out.Info = cloneInfo(info)
	}
	result.AddWarning(NewMetadataOverrideWarning("info", first, second, source, j.config.InfoOverride))
}

func cloneInfo(info document.Info) document.Info {
	c := info
	if info.Contact != nil {
		contact := *info.Contact
		c.Contact = &contact
	}
	if info.License != nil {
		license := *info.License
		c.License = &license
	}
	return c
}

func cloneRequirement(req document.SecurityRequirement) document.SecurityRequirement {
	c := make(document.SecurityRequirement, len(req))
	for k, v := range req {
		c[k] = slices.Clone(v)
	}
	return c
}

// withSource records the offending source on conflict errors.
func withSource(err error, source string) error {
	var schemaErr *oaserrors.SchemaConflictError
	if errors.As(err, &schemaErr) {
		schemaErr.Source = source
		return schemaErr
	}
	var respErr *oaserrors.ResponseConflictError
	if errors.As(err, &respErr) {
		respErr.Source = source
		return respErr
	}
	var schemeErr *oaserrors.SecuritySchemeConflictError
	if errors.As(err, &schemeErr) {
		schemeErr.Source = source
		return schemeErr
	}
	return err
}

// Join merges sources into base using the default configuration.
func Join(base *document.Document, sources ...*document.Document) (*JoinResult, error) {
	return New(DefaultConfig()).Join(base, sources...)
}
