// Package server serves rendered documents for preview and applies the edit,
// comment and signal actions sent back by the page script.
//
// Lines are 1-indexed on the wire, matching the data-line attributes of the
// rendered blocks. Documents must live under the server root.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-specview"
	"github.com/alnah/go-specview/internal/fileutil"
	"github.com/alnah/go-specview/internal/refine"
)

// Sentinel errors for document lookup.
var (
	ErrMissingPath = errors.New("path query parameter is required")
	ErrNotMarkdown = errors.New("not a Markdown document")
	ErrNotFound    = errors.New("document not found")
)

// Server is the preview HTTP server.
type Server struct {
	router   chi.Router
	renderer *specview.Renderer
	comments *refine.Store
	root     string
	log      *slog.Logger

	// editMu serializes read-modify-write cycles on documents.
	editMu sync.Mutex
}

// New creates a Server for the documents under root. An empty root is the
// working directory; a nil logger discards request logs.
func New(renderer *specview.Renderer, root string, log *slog.Logger) (*Server, error) {
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("server root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("server root %s is not a directory", absRoot)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		renderer: renderer,
		comments: refine.NewStore(),
		root:     absRoot,
		log:      log,
	}
	s.setupRoutes()
	return s, nil
}

// Root returns the absolute directory documents are served from.
func (s *Server) Root() string {
	return s.root
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/view", s.handleView)

	r.Route("/api", func(r chi.Router) {
		r.Get("/render", s.handleRender)
		r.Get("/line", s.handleLine)
		r.Post("/edit", s.handleEdit)
		r.Post("/signal", s.handleSignal)

		r.Get("/comments", s.handleListComments)
		r.Post("/comments", s.handleAddComment)
		r.Delete("/comments", s.handleDeleteComment)
		r.Post("/comments/submit", s.handleSubmitComments)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// document is a resolved request target.
type document struct {
	abs string // absolute path on disk
	rel string // slash-separated path relative to the root
}

// resolve checks that path names a Markdown file under the root.
func (s *Server) resolve(path string) (document, error) {
	if path == "" {
		return document{}, ErrMissingPath
	}
	if !fileutil.IsMarkdown(path) {
		return document{}, fmt.Errorf("%w: %s", ErrNotMarkdown, path)
	}
	abs, err := fileutil.ResolveWithin(s.root, filepath.FromSlash(path))
	if err != nil {
		return document{}, err
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return document{}, err
	}
	return document{abs: abs, rel: filepath.ToSlash(rel)}, nil
}

// read loads the document source.
func (s *Server) read(doc document) (string, error) {
	data, err := os.ReadFile(doc.abs) // #nosec G304 -- confined to the root by resolve
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, doc.rel)
		}
		return "", fmt.Errorf("reading %s: %w", doc.rel, err)
	}
	return string(data), nil
}
