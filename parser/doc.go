// Package parser decodes OpenAPI 3.0 and 3.1 documents (JSON or YAML) into
// the version-neutral document model.
//
// Decoding walks the YAML node tree rather than plain maps, so the order of
// paths, properties and component names in the source is kept. Local
// component references to parameters, request bodies, responses and headers
// are inlined; schema and security scheme references stay as references.
//
// Both nullable encodings are recognized and folded into Schema.Nullable:
//
//	nickname: {type: string, nullable: true}          # 3.0
//	nickname: {type: [string, "null"]}                # 3.1
//	manager:  {oneOf: [{$ref: ...}, {type: "null"}]}  # 3.1
//
// Parse errors are *oaserrors.ParseError values that carry the line and column
// of the offending node.
package parser
