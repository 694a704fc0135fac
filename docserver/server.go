package docserver

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/serializer"
)

// docserverLogger is used when no logger is configured.
var docserverLogger = slog.Default()

// Server serves a frozen document and its viewer pages. It is safe for
// concurrent use: the document is rendered once per format and the cached
// bytes are shared by every request.
type Server struct {
	frozen *document.Frozen
	config Config
	mux    *http.ServeMux
	logger *slog.Logger
	pages  map[Viewer][]byte
	index  []byte
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a Server for frozen. Viewer pages are rendered up front, so a
// configuration problem is reported here rather than per request.
func New(frozen *document.Frozen, cfg Config, opts ...Option) (*Server, error) {
	if frozen == nil {
		return nil, errors.New("docserver: frozen document is nil")
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SpecURL == "" {
		cfg.SpecURL = cfg.route("openapi.json")
	}
	if cfg.Title == "" {
		cfg.Title = frozen.Info().Title
	}

	s := &Server{
		frozen: frozen,
		config: cfg,
		mux:    http.NewServeMux(),
		logger: docserverLogger,
		pages:  make(map[Viewer][]byte, len(cfg.Viewers)),
	}
	for _, opt := range opts {
		opt(s)
	}

	links := make([]indexLink, 0, len(cfg.Viewers)+2)
	for _, v := range cfg.Viewers {
		page, err := renderViewer(v, cfg.Title, cfg.SpecURL, cfg.SwaggerUIOptions)
		if err != nil {
			return nil, err
		}
		s.pages[v] = page
		s.mux.HandleFunc("GET "+cfg.route(string(v)), s.viewerHandler(v))
		links = append(links, indexLink{Name: string(v), Href: cfg.route(string(v))})
	}

	s.mux.HandleFunc("GET "+cfg.route("openapi.json"), s.documentHandler(serializer.FormatJSON))
	links = append(links, indexLink{Name: "openapi.json", Href: cfg.route("openapi.json")})
	if !cfg.DisableYAML {
		s.mux.HandleFunc("GET "+cfg.route("openapi.yaml"), s.documentHandler(serializer.FormatYAML))
		links = append(links, indexLink{Name: "openapi.yaml", Href: cfg.route("openapi.yaml")})
	}

	index, err := renderIndex(cfg.Title, links)
	if err != nil {
		return nil, err
	}
	s.index = index
	root := cfg.route("")
	if root != "/" {
		root += "/"
	}
	s.mux.HandleFunc("GET "+root+"{$}", s.indexHandler)
	return s, nil
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	return s.config
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) documentHandler(format serializer.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := serializer.FrozenBytes(s.frozen, format)
		if err != nil {
			s.logger.Error("render document", "format", format, "error", err)
			http.Error(w, "failed to render document", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("ETag", etag(data))
		w.Header().Set("Access-Control-Allow-Origin", "*")
		s.logger.Debug("serve document", "format", format, "bytes", len(data))
		http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(data))
	}
}

func (s *Server) viewerHandler(v Viewer) http.HandlerFunc {
	page := s.pages[v]
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("serve viewer", "viewer", v)
		writeHTML(w, page)
	}
}

func (s *Server) indexHandler(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, s.index)
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func etag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

// Serve listens on addr and serves until ctx is canceled, then shuts down
// gracefully within the configured timeout. ready, if non-nil, receives the
// bound address once the listener is open.
func (s *Server) Serve(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("docserver: listen: %w", err)
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.logger.Info("serving documentation", "addr", ln.Addr().String(), "base", s.config.BasePath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
