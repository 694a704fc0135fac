// Package docserver serves a frozen OpenAPI document over HTTP together with
// interactive documentation pages.
//
// Routes are mounted under Config.BasePath:
//
//	GET {base}/openapi.json   the document as JSON
//	GET {base}/openapi.yaml   the document as YAML (unless DisableYAML)
//	GET {base}/swagger-ui     Swagger UI
//	GET {base}/redoc          Redoc
//	GET {base}/rapidoc        RapiDoc
//	GET {base}/scalar         Scalar
//	GET {base}/               an index linking the above
//
// The document bytes come from the Frozen render cache, so every request for
// a format returns identical content with a stable ETag. Viewer pages load
// their scripts from public CDNs and fetch the document from Config.SpecURL.
//
// Example:
//
//	frozen := result.Freeze()
//	srv, err := docserver.New(frozen, docserver.Config{BasePath: "/docs"})
//	if err != nil {
//		return err
//	}
//	return srv.Serve(ctx, ":8080", nil)
package docserver
