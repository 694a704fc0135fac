// Package serializer renders a document.Document as an OpenAPI 3.0 or 3.1
// JSON or YAML document.
//
// The serializer first builds an ordered yaml.Node tree, then emits it either
// through the YAML encoder or through an order-preserving JSON writer, so both
// formats share key order. Key order inside every object follows the OpenAPI
// field order; names (paths, properties, component names) follow the
// orders selected in document.Config.
//
// Nullability is rendered per version:
//
//   - 3.0: "nullable: true" (a nullable $ref becomes allOf: [$ref] plus nullable)
//   - 3.1: "type: [T, null]" for typed schemas, and oneOf with a {type: null}
//     member for references and compositions
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/oaserrors"
)

// Format is an output encoding.
type Format string

const (
	// FormatJSON emits indented JSON.
	FormatJSON Format = "json"
	// FormatYAML emits YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user-supplied string into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml", "":
		return FormatYAML, nil
	default:
		return "", &oaserrors.ConfigError{Option: "format", Value: s, Message: "must be json or yaml"}
	}
}

// Marshal renders doc in the requested format.
func Marshal(doc *document.Document, format Format, cfg document.Config) ([]byte, error) {
	switch format {
	case FormatJSON:
		return MarshalJSON(doc, cfg)
	case FormatYAML:
		return MarshalYAML(doc, cfg)
	default:
		return nil, &oaserrors.ConfigError{Option: "format", Value: string(format), Message: "must be json or yaml"}
	}
}

// MarshalYAML renders doc as YAML.
func MarshalYAML(doc *document.Document, cfg document.Config) ([]byte, error) {
	node, err := BuildNode(doc, cfg)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("serializer: yaml encode: %w", err)
	}
	return out, nil
}

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *document.Document, cfg document.Config) ([]byte, error) {
	node, err := BuildNode(doc, cfg)
	if err != nil {
		return nil, err
	}
	var compact bytes.Buffer
	if err := writeNodeJSON(&compact, node); err != nil {
		return nil, fmt.Errorf("serializer: json encode: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("serializer: json indent: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// FrozenBytes returns the cached rendering of f in format, rendering it on
// first use.
func FrozenBytes(f *document.Frozen, format Format) ([]byte, error) {
	return f.Cached(string(format), func(d *document.Document, cfg document.Config) ([]byte, error) {
		return Marshal(d, format, cfg)
	})
}

// ContentType returns the HTTP content type for format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "application/yaml"
}
