package docserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/oaserrors"
	"github.com/erraggy/oascompose/parser"
)

func TestMain(m *testing.M) {
	docserverLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

func frozenDocument(t *testing.T) *document.Frozen {
	t.Helper()
	doc := document.New(document.Info{Title: "Pets <API>", Version: "1.0.0"})
	require.NoError(t, doc.AddOperation(&document.OperationEntry{
		Path:      "/pets",
		Method:    document.MethodGet,
		Responses: map[string]*document.Response{"200": {Description: "OK"}},
	}, document.PolicyReject))
	return document.Freeze(doc, document.DefaultConfig())
}

func get(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeDocument(t *testing.T) {
	s, err := New(frozenDocument(t), Config{})
	require.NoError(t, err)

	rec := get(t, s, "/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	result, err := parser.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	_, ok := result.Document.Operations.Get("/pets", document.MethodGet)
	assert.True(t, ok)

	rec = get(t, s, "/openapi.yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "openapi: 3.1.0"))

	tag := rec.Header().Get("ETag")
	require.NotEmpty(t, tag)
	rec = get(t, s, "/openapi.yaml", "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/openapi.json", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestViewerPages(t *testing.T) {
	s, err := New(frozenDocument(t), Config{
		BasePath:         "/docs/",
		SwaggerUIOptions: map[string]any{"docExpansion": "none"},
	})
	require.NoError(t, err)

	tests := []struct {
		viewer Viewer
		want   []string
	}{
		{ViewerSwaggerUI, []string{"swagger-ui-bundle.js", `"url":"/docs/openapi.json"`, `"docExpansion":"none"`}},
		{ViewerRedoc, []string{"redoc.standalone.js", `spec-url="/docs/openapi.json"`}},
		{ViewerRapiDoc, []string{"rapidoc-min.js", `spec-url="/docs/openapi.json"`}},
		{ViewerScalar, []string{"@scalar/api-reference", `"url":"/docs/openapi.json"`}},
	}
	for _, tt := range tests {
		t.Run(string(tt.viewer), func(t *testing.T) {
			rec := get(t, s, "/docs/"+string(tt.viewer))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			for _, w := range tt.want {
				assert.Contains(t, body, w)
			}
			assert.Contains(t, body, "<title>Pets &lt;API&gt;</title>")
		})
	}

	assert.Equal(t, http.StatusOK, get(t, s, "/docs/openapi.json").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/openapi.json").Code)

	index := get(t, s, "/docs/")
	require.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Body.String(), `href="/docs/redoc"`)
}

func TestSelectedViewersAndSpecURL(t *testing.T) {
	s, err := New(frozenDocument(t), Config{
		Viewers:     []Viewer{ViewerRedoc},
		SpecURL:     "https://api.example.com/openapi.json",
		Title:       "Reference",
		DisableYAML: true,
	})
	require.NoError(t, err)

	rec := get(t, s, "/redoc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `spec-url="https://api.example.com/openapi.json"`)
	assert.Contains(t, rec.Body.String(), "<title>Reference</title>")

	assert.Equal(t, http.StatusNotFound, get(t, s, "/swagger-ui").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/openapi.yaml").Code)
	assert.Equal(t, []Viewer{ViewerRedoc}, s.Config().Viewers)
}

func TestConcurrentRequestsShareRendering(t *testing.T) {
	s, err := New(frozenDocument(t), Config{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	bodies := make([]string, 16)
	for i := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
			bodies[i] = rec.Body.String()
		}()
	}
	wg.Wait()
	for _, b := range bodies {
		assert.Equal(t, bodies[0], b)
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err)

	_, err = New(frozenDocument(t), Config{Viewers: []Viewer{"elements"}})
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))

	_, err = New(frozenDocument(t), Config{Viewers: []Viewer{ViewerRedoc, ViewerRedoc}})
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))

	_, err = New(frozenDocument(t), Config{BasePath: "/docs/{version}"})
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
}

func TestParseViewer(t *testing.T) {
	for in, want := range map[string]Viewer{
		"swagger-ui": ViewerSwaggerUI,
		"Swagger":    ViewerSwaggerUI,
		" redoc ":    ViewerRedoc,
		"RAPIDOC":    ViewerRapiDoc,
		"scalar":     ViewerScalar,
	} {
		got, err := ParseViewer(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseViewer("elements")
	assert.ErrorContains(t, err, "swagger-ui, redoc, rapidoc, scalar")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, err := New(frozenDocument(t), Config{ShutdownTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a })
	}()

	addr := <-addrCh
	resp, err := http.Get(fmt.Sprintf("http://%s/openapi.json", addr))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
