package docserver

import (
	"slices"
	"strings"
	"time"

	"github.com/erraggy/oascompose/internal/pathutil"
	"github.com/erraggy/oascompose/oaserrors"
)

// Viewer identifies an interactive documentation page.
type Viewer string

const (
	// ViewerSwaggerUI serves Swagger UI.
	ViewerSwaggerUI Viewer = "swagger-ui"
	// ViewerRedoc serves Redoc.
	ViewerRedoc Viewer = "redoc"
	// ViewerRapiDoc serves RapiDoc.
	ViewerRapiDoc Viewer = "rapidoc"
	// ViewerScalar serves the Scalar API reference.
	ViewerScalar Viewer = "scalar"
)

// Viewers returns every supported viewer in the order pages are listed.
func Viewers() []Viewer {
	return []Viewer{ViewerSwaggerUI, ViewerRedoc, ViewerRapiDoc, ViewerScalar}
}

// ParseViewer converts a user-supplied name into a Viewer.
func ParseViewer(s string) (Viewer, error) {
	v := Viewer(strings.ToLower(strings.TrimSpace(s)))
	if v == "swagger" || v == "swaggerui" {
		v = ViewerSwaggerUI
	}
	if !slices.Contains(Viewers(), v) {
		names := make([]string, 0, len(Viewers()))
		for _, known := range Viewers() {
			names = append(names, string(known))
		}
		return "", &oaserrors.ConfigError{Option: "viewer", Value: s, Message: "must be one of " + strings.Join(names, ", ")}
	}
	return v, nil
}

// Config configures a documentation server.
type Config struct {
	// BasePath is the prefix every route is served under. Default "/".
	BasePath string
	// Viewers lists the viewer pages to serve. Empty serves all of them.
	Viewers []Viewer
	// SpecURL is the URL viewer pages load the document from. Default is
	// the JSON route of this server.
	SpecURL string
	// Title is the HTML page title. Default is the document title.
	Title string
	// DisableYAML turns off the YAML route.
	DisableYAML bool
	// SwaggerUIOptions are merged into the SwaggerUIBundle configuration.
	SwaggerUIOptions map[string]any
	// ShutdownTimeout bounds graceful shutdown in Serve. Default 5s.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config serving every viewer at the root.
func DefaultConfig() Config {
	return Config{
		BasePath:        "/",
		Viewers:         Viewers(),
		ShutdownTimeout: 5 * time.Second,
	}
}

// withDefaults fills in zero fields.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BasePath == "" {
		c.BasePath = def.BasePath
	}
	if len(c.Viewers) == 0 {
		c.Viewers = def.Viewers
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return c
}

// Validate checks the configuration.
func (c Config) Validate() error {
	seen := make(map[Viewer]bool)
	for _, v := range c.Viewers {
		if !slices.Contains(Viewers(), v) {
			return &oaserrors.ConfigError{Option: "viewer", Value: string(v), Message: "unknown viewer"}
		}
		if seen[v] {
			return &oaserrors.ConfigError{Option: "viewer", Value: string(v), Message: "listed twice"}
		}
		seen[v] = true
	}
	if strings.ContainsAny(c.BasePath, "{}?#") {
		return &oaserrors.ConfigError{Option: "base path", Value: c.BasePath, Message: "must be a plain path"}
	}
	return nil
}

// route returns the path of a route under the base path.
func (c Config) route(name string) string {
	return pathutil.JoinPath(c.BasePath, "/"+name)
}
