package joiner

import (
	"fmt"
	"log/slog"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/options"
	"github.com/erraggy/oascompose/oaserrors"
	"github.com/erraggy/oascompose/parser"
)

// Option configures a join operation.
type Option func(*joinConfig) error

type joinConfig struct {
	base      *document.Document
	sources   []Source
	filePaths []string

	// nil means use the value from DefaultConfig (or WithConfig)
	config                  *JoinerConfig
	duplicatePolicy         *document.DuplicatePolicy
	infoOverride            *bool
	mountRoot               *string
	skipReferenceValidation *bool
	documentConfig          *document.Config

	logger *slog.Logger
}

// JoinWithOptions joins documents using functional options.
//
//	result, err := joiner.JoinWithOptions(
//	    joiner.WithFilePaths("users.yaml", "billing.yaml"),
//	    joiner.WithDuplicatePolicy(document.PolicyReject),
//	)
func JoinWithOptions(opts ...Option) (*JoinResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("joiner: invalid options: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.config != nil {
		defaults = *cfg.config
	}

	sources := cfg.sources
	var firstVersion document.OASVersion
	for _, path := range cfg.filePaths {
		parsed, err := parser.ParseWithOptions(
			parser.WithFilePath(path),
			parser.WithLogger(parser.NewSlogAdapter(cfg.logger)),
		)
		if err != nil {
			return nil, err
		}
		if firstVersion == "" {
			firstVersion = parsed.OASVersion
		}
		sources = append(sources, Source{Name: parsed.SourcePath, Document: parsed.Document})
	}

	docCfg := defaults.Document
	if firstVersion != "" && cfg.config == nil {
		// Without an explicit configuration, emit the first file's version.
		docCfg.OpenAPIVersion = firstVersion
	}

	j := New(JoinerConfig{
		DuplicatePolicy:         valueOrDefault(cfg.duplicatePolicy, defaults.DuplicatePolicy),
		InfoOverride:            valueOrDefault(cfg.infoOverride, defaults.InfoOverride),
		MountRoot:               valueOrDefault(cfg.mountRoot, defaults.MountRoot),
		SkipReferenceValidation: valueOrDefault(cfg.skipReferenceValidation, defaults.SkipReferenceValidation),
		Document:                valueOrDefault(cfg.documentConfig, docCfg),
	})
	j.logger = cfg.logger
	return j.JoinSources(cfg.base, sources...)
}

func applyOptions(opts ...Option) (*joinConfig, error) {
	cfg := &joinConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.SingleSource("joiner input (WithBase, WithDocuments, WithSources or WithFilePaths)",
		cfg.base != nil || len(cfg.sources) > 0 || len(cfg.filePaths) > 0,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func valueOrDefault[T any](ptr *T, def T) T {
	if ptr != nil {
		return *ptr
	}
	return def
}

// WithBase sets the document the sources are merged into. It is never modified.
func WithBase(doc *document.Document) Option {
	return func(cfg *joinConfig) error {
		if doc == nil {
			return fmt.Errorf("joiner: base document cannot be nil")
		}
		cfg.base = doc
		return nil
	}
}

// WithDocuments appends unnamed source documents.
func WithDocuments(docs ...*document.Document) Option {
	return func(cfg *joinConfig) error {
		for _, d := range docs {
			if d == nil {
				return fmt.Errorf("joiner: source document cannot be nil")
			}
			cfg.sources = append(cfg.sources, Source{
				Name:     fmt.Sprintf("source[%d]", len(cfg.sources)+1),
				Document: d,
			})
		}
		return nil
	}
}

// WithSources appends named source documents.
func WithSources(sources ...Source) Option {
	return func(cfg *joinConfig) error {
		cfg.sources = append(cfg.sources, sources...)
		return nil
	}
}

// WithParsed appends parser results as sources named by their SourcePath.
func WithParsed(results ...*parser.ParseResult) Option {
	return func(cfg *joinConfig) error {
		for _, r := range results {
			if r == nil || r.Document == nil {
				return fmt.Errorf("joiner: parse result cannot be nil")
			}
			cfg.sources = append(cfg.sources, Source{Name: r.SourcePath, Document: r.Document})
		}
		return nil
	}
}

// WithFilePaths parses each file and appends it as a source. Files are
// merged after any document sources.
func WithFilePaths(paths ...string) Option {
	return func(cfg *joinConfig) error {
		for _, p := range paths {
			if err := options.NonEmpty("file path", p); err != nil {
				return err
			}
		}
		cfg.filePaths = append(cfg.filePaths, paths...)
		return nil
	}
}

// WithConfig replaces the defaults that the other options refine.
func WithConfig(c JoinerConfig) Option {
	return func(cfg *joinConfig) error {
		cfg.config = &c
		return nil
	}
}

// WithDuplicatePolicy sets how duplicate (path, method) pairs are resolved.
func WithDuplicatePolicy(policy document.DuplicatePolicy) Option {
	return func(cfg *joinConfig) error {
		if !policy.Valid() {
			return &oaserrors.ConfigError{Option: "duplicate policy", Value: policy,
				Message: fmt.Sprintf("must be one of %v", document.ValidDuplicatePolicies())}
		}
		cfg.duplicatePolicy = &policy
		return nil
	}
}

// WithInfoOverride lets later sources replace the info block.
func WithInfoOverride(enabled bool) Option {
	return func(cfg *joinConfig) error {
		cfg.infoOverride = &enabled
		return nil
	}
}

// WithMountRoot sets the root of the result when no base is given.
func WithMountRoot(root string) Option {
	return func(cfg *joinConfig) error {
		if err := options.NonEmpty("mount root", root); err != nil {
			return err
		}
		cfg.mountRoot = &root
		return nil
	}
}

// WithSkipReferenceValidation disables the dangling reference check for
// intermediate joins.
func WithSkipReferenceValidation(skip bool) Option {
	return func(cfg *joinConfig) error {
		cfg.skipReferenceValidation = &skip
		return nil
	}
}

// WithDocumentConfig sets the version and ordering recorded on the result.
func WithDocumentConfig(c document.Config) Option {
	return func(cfg *joinConfig) error {
		if err := c.Validate(); err != nil {
			return err
		}
		cfg.documentConfig = &c
		return nil
	}
}

// WithLogger sets the logger used for join diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *joinConfig) error {
		cfg.logger = l
		return nil
	}
}
