// Package joiner assembles several partial OpenAPI documents into one.
//
// Sources are merged into a base document in the order given:
//
//  1. component schemas are registered; an identical re-registration is a
//     no-op, a different definition under the same name fails with
//     *oaserrors.SchemaConflictError
//  2. operations are inserted under the configured duplicate policy
//     (merge by default: empty fields are filled, tags and responses are
//     unioned)
//  3. tags are unioned by name, preferring a non-empty description
//  4. security schemes are registered with the same conflict rule as schemas
//  5. servers, document security and extensions are unioned
//
// Finally every schema and security scheme reference must resolve, otherwise
// the join fails with *oaserrors.DanglingReferenceError.
//
// A join is atomic. The base document and the sources are never modified,
// and a failed join returns no document.
//
// # Tag descriptions
//
// When two sources describe the same tag differently the first non-empty
// description is kept and a WarnTagDescription warning is recorded.
//
// # Example
//
//	result, err := joiner.JoinWithOptions(
//	    joiner.WithFilePaths("users.yaml", "billing.yaml"),
//	)
//	if err != nil {
//	    var conflict *oaserrors.SchemaConflictError
//	    if errors.As(err, &conflict) {
//	        log.Fatalf("schema %s defined twice (second in %s)", conflict.Name, conflict.Source)
//	    }
//	    log.Fatal(err)
//	}
//	out, err := serializer.MarshalYAML(result.Document, result.Config)
package joiner
