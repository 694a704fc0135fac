// Package validator checks serialized OpenAPI documents for conformance.
//
// OpenAPI 3.0 documents are loaded with the kin-openapi loader, which
// resolves every local reference, and checked with its structural
// validation. OpenAPI 3.1 documents are checked by compiling every schema
// (components, parameters, request and response bodies, headers) with a
// JSON Schema 2020-12 compiler against the document itself, so a dangling
// reference or malformed keyword fails compilation. Component examples are
// validated against their schemas and reported as warnings.
//
// # Quick Start
//
//	data, _ := serializer.MarshalJSON(doc, cfg)
//	result, err := validator.Validate(ctx, data, cfg.OpenAPIVersion)
//	if err != nil {
//		log.Fatal(err) // input could not be decoded
//	}
//	if err := result.Err(); err != nil {
//		log.Fatal(err) // *oaserrors.ValidationError
//	}
//
// Problems found in a readable document are reported in the
// [ValidationResult] rather than as an error; [ValidationResult.Err]
// converts them into an [oaserrors.ValidationError].
package validator
