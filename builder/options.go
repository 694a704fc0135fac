package builder

import "log/slog"

// BuilderOption configures a Builder instance.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	namingStrategy SchemaNamingStrategy
	genericNaming  GenericNamingStrategy
	namingFunc     SchemaNameFunc
	mountRoot      string
	logger         *slog.Logger
}

func defaultBuilderConfig() *builderConfig {
	return &builderConfig{
		namingStrategy: SchemaNamingTypeOnly,
		genericNaming:  GenericNamingUnderscore,
		mountRoot:      "/",
	}
}

// WithSchemaNaming sets a built-in schema naming strategy.
// The default is SchemaNamingTypeOnly.
func WithSchemaNaming(strategy SchemaNamingStrategy) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.namingStrategy = strategy
	}
}

// WithGenericNaming sets how generic instantiations are named.
// The default is GenericNamingUnderscore.
func WithGenericNaming(strategy GenericNamingStrategy) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.genericNaming = strategy
	}
}

// WithSchemaNameFunc sets a custom naming function. Returning "" falls back
// to the configured strategy.
//
//	builder.WithSchemaNameFunc(func(t reflect.Type) string {
//	    return strings.TrimSuffix(t.Name(), "DTO")
//	})
func WithSchemaNameFunc(fn SchemaNameFunc) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.namingFunc = fn
	}
}

// WithMountRoot restricts operations to paths under root.
func WithMountRoot(root string) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.mountRoot = root
	}
}

// WithLogger sets the logger for builder diagnostics.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.logger = l
	}
}
