package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/oaserrors"
)

// SourceFormat is the encoding of a parsed source document.
type SourceFormat string

const (
	// SourceFormatYAML indicates a YAML source.
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates a JSON source.
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the format could not be determined.
	SourceFormatUnknown SourceFormat = "unknown"
)

// DefaultMaxFileSize is the largest input accepted unless overridden with
// WithMaxFileSize.
const DefaultMaxFileSize int64 = 64 << 20

// ParseResult holds a decoded source document.
type ParseResult struct {
	// SourcePath is the file path or the name given with WithSourceName.
	SourcePath string
	// SourceFormat is the detected input encoding.
	SourceFormat SourceFormat
	// Version is the raw "openapi" field, e.g. "3.0.3".
	Version string
	// OASVersion is the major.minor version family.
	OASVersion document.OASVersion
	// Document is the decoded model. It is mounted at the configured root.
	Document *document.Document
	// Warnings lists constructs that were dropped or approximated.
	Warnings []string
	// SourceSize is the input size in bytes.
	SourceSize int64
	// LoadTime is the time spent reading the input.
	LoadTime time.Duration
}

// Config returns a document.Config that re-serializes the result in its
// source version.
func (r *ParseResult) Config() document.Config {
	cfg := document.DefaultConfig()
	cfg.OpenAPIVersion = r.OASVersion
	return cfg
}

// Parse decodes an OpenAPI 3.0 or 3.1 document from data.
func Parse(data []byte) (*ParseResult, error) {
	return ParseWithOptions(WithBytes(data))
}

// ParseFile decodes the OpenAPI document at path.
func ParseFile(path string) (*ParseResult, error) {
	return ParseWithOptions(WithFilePath(path))
}

// ParseWithOptions decodes a document using functional options.
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("users.yaml"),
//	    parser.WithMountRoot("/users"),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	var (
		data     []byte
		source   = "ParseBytes"
		format   = SourceFormatUnknown
		loadTime time.Duration
	)
	start := time.Now()
	switch {
	case cfg.filePath != nil:
		source = *cfg.filePath
		info, statErr := os.Stat(source)
		if statErr != nil {
			return nil, fmt.Errorf("parser: failed to read file: %w", statErr)
		}
		if info.Size() > cfg.maxFileSize {
			return nil, &oaserrors.ParseError{Path: source, Message: fmt.Sprintf("file exceeds maximum size of %d bytes", cfg.maxFileSize)}
		}
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read file: %w", err)
		}
		format = detectFormatFromPath(source)
	case cfg.reader != nil:
		source = "ParseReader"
		data, err = io.ReadAll(io.LimitReader(cfg.reader, cfg.maxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read input: %w", err)
		}
		if int64(len(data)) > cfg.maxFileSize {
			return nil, &oaserrors.ParseError{Path: source, Message: fmt.Sprintf("input exceeds maximum size of %d bytes", cfg.maxFileSize)}
		}
	default:
		data = cfg.bytes
	}
	loadTime = time.Since(start)

	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}
	if cfg.sourceName != nil {
		source = *cfg.sourceName
	}

	log := cfg.logger.With("source", source)
	result, err := decodeDocument(data, source, cfg.mountRoot, log)
	if err != nil {
		log.Debug("parse failed", "error", err)
		return nil, err
	}
	result.SourceFormat = format
	result.SourceSize = int64(len(data))
	result.LoadTime = loadTime
	for _, w := range result.Warnings {
		log.Warn("parse warning", "detail", w)
	}
	stats := result.Document.Stats()
	log.Debug("parsed document",
		"version", result.Version,
		"paths", stats.PathCount,
		"operations", stats.OperationCount,
		"schemas", stats.SchemaCount,
	)
	return result, nil
}

func decodeDocument(data []byte, source, root string, log Logger) (*ParseResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Path: source, Message: "empty document"}
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "invalid YAML or JSON", Cause: err}
	}
	top := &node
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return nil, &oaserrors.ParseError{Path: source, Message: "empty document"}
		}
		top = top.Content[0]
	}
	d := &decoder{source: source, log: log}
	return d.document(resolveAlias(top), root)
}

// detectFormatFromPath detects the source format from a file extension.
func detectFormatFromPath(path string) SourceFormat {
	switch filepath.Ext(path) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent treats input starting with '{' or '[' as JSON.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
