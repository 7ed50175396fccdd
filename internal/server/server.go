// Package server exposes the flattener and the mismatch detector over HTTP.
//
// Routes:
//
//	GET  /healthz     build information
//	POST /v1/flatten  body: a dependency tree object; returns its occurrences
//	POST /v1/check    body: {"declared": [...], "tree": {...}}; returns a report document
//
// The service never runs npm. Clients send the "dependencies" object of
// `npm ls --all --json` output.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/depskew/pkg/buildinfo"
	errs "github.com/matzehuels/depskew/pkg/errors"
	"github.com/matzehuels/depskew/pkg/report"
	"github.com/matzehuels/depskew/pkg/skew"
	"github.com/matzehuels/depskew/pkg/tree"
)

// Defaults for Options.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address.
	Addr string
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
	// MaxDepth bounds tree traversal; 0 uses tree.DefaultMaxDepth.
	MaxDepth int
	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Server is the depskew HTTP service.
type Server struct {
	opts   Options
	router chi.Router
}

// New creates a server with its routes registered.
func New(opts Options) *Server {
	s := &Server{opts: opts.WithDefaults()}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/flatten", s.handleFlatten)
		r.Post("/check", s.handleCheck)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("Listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.opts.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

// CheckRequest is the body of POST /v1/check.
type CheckRequest struct {
	Declared []string        `json:"declared"`
	Tree     json.RawMessage `json:"tree"`
	// Order sorts divergent versions: asc (default) or desc.
	Order string `json:"order,omitempty"`
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := parseTree(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	occ := tree.Flatten(t, s.flattenOpts()...)
	if occ == nil {
		occ = []tree.Occurrence{}
	}
	writeJSON(w, http.StatusOK, occ)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req CheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	order, err := skew.ParseOrder(req.Order)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "order"))
		return
	}

	var t tree.Tree
	if len(req.Tree) > 0 && string(req.Tree) != "null" {
		if t, err = parseTree(req.Tree); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	mismatches := skew.Check(t, req.Declared, s.flattenOpts()...)
	writeJSON(w, http.StatusOK, report.NewDocument(mismatches, report.Options{
		Order:   order,
		Checked: len(req.Declared),
	}))
}

func (s *Server) flattenOpts() []tree.Option {
	if s.opts.MaxDepth > 0 {
		return []tree.Option{tree.WithMaxDepth(s.opts.MaxDepth)}
	}
	return nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	return body, nil
}

func parseTree(data []byte) (tree.Tree, error) {
	t, err := tree.Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidTree, err, "parse dependency tree")
	}
	return t, nil
}
