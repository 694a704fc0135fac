package parser

import (
	"fmt"
	"io"

	"github.com/erraggy/oascompose/internal/options"
)

// Option configures a parse operation.
type Option func(*parseConfig) error

type parseConfig struct {
	// exactly one input source is set
	filePath *string
	reader   io.Reader
	bytes    []byte

	logger      Logger
	sourceName  *string
	mountRoot   string
	maxFileSize int64
}

func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		logger:      NopLogger{},
		mountRoot:   "/",
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.SingleSource("parser input (WithFilePath, WithReader or WithBytes)",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath reads the document from a local file.
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		if err := options.NonEmpty("file path", path); err != nil {
			return err
		}
		cfg.filePath = &path
		return nil
	}
}

// WithReader reads the document from r.
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("parser: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes decodes data directly.
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("parser: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithLogger sets the logger. A nil logger keeps the NopLogger default.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		if l != nil {
			cfg.logger = l
		}
		return nil
	}
}

// WithSourceName overrides ParseResult.SourcePath. Joiner warnings and
// conflict errors report this name, which helps when several sources are
// parsed from bytes.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		if err := options.NonEmpty("source name", name); err != nil {
			return err
		}
		cfg.sourceName = &name
		return nil
	}
}

// WithMountRoot sets the root under which every decoded path must live.
// The default is "/".
func WithMountRoot(root string) Option {
	return func(cfg *parseConfig) error {
		if err := options.NonEmpty("mount root", root); err != nil {
			return err
		}
		cfg.mountRoot = root
		return nil
	}
}

// WithMaxFileSize limits the input size in bytes. Zero keeps the default.
func WithMaxFileSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if size < 0 {
			return fmt.Errorf("parser: max file size cannot be negative")
		}
		if size > 0 {
			cfg.maxFileSize = size
		}
		return nil
	}
}
