package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alnah/go-specview"
	"github.com/alnah/go-specview/internal/dom"
	"github.com/alnah/go-specview/internal/fileutil"
	"github.com/alnah/go-specview/internal/refine"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

var errBadRequest = errors.New("bad request")

type editRequest struct {
	Path   string            `json:"path"`
	Action specview.EditKind `json:"action"`
	Line   int               `json:"line"`
	Text   string            `json:"text"`
}

type signalRequest struct {
	Path   string                `json:"path"`
	Action specview.SignalAction `json:"action"`
	Line   int                   `json:"line"`
}

type commentRequest struct {
	Path     string       `json:"path"`
	Line     int          `json:"line"`
	Comment  string       `json:"comment"`
	LineType dom.LineType `json:"lineType"`
}

type submitRequest struct {
	Path string `json:"path"`
}

type lineResponse struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// handleView serves a document as a complete page.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	doc, src, err := s.load(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, err)
		return
	}

	result, err := s.renderer.Render(r.Context(), specview.Input{
		Markdown: src,
		Path:     doc.rel,
		Page:     true,
		Plain:    queryBool(r, "plain"),
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(result.HTML))
}

// handleRender returns the fragment, blocks and outline of a document.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, src, err := s.load(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, r, doc, src, queryBool(r, "plain"))
}

// handleLine returns the editable text of one source line.
func (s *Server) handleLine(w http.ResponseWriter, r *http.Request) {
	line, err := strconv.Atoi(r.URL.Query().Get("line"))
	if err != nil {
		s.fail(w, fmt.Errorf("%w: line must be a number", errBadRequest))
		return
	}
	_, src, err := s.load(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, err)
		return
	}

	content, ok := specview.LineContent(src, line-1)
	if !ok {
		s.fail(w, fmt.Errorf("%w: %d", specview.ErrLineOutOfRange, line))
		return
	}
	writeJSON(w, http.StatusOK, lineResponse{Line: line, Content: content})
}

// handleEdit applies one edit to the file on disk and returns the new render.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	s.editMu.Lock()
	defer s.editMu.Unlock()

	doc, src, err := s.load(req.Path)
	if err != nil {
		s.fail(w, err)
		return
	}

	updated, err := specview.Apply(src, specview.Edit{Kind: req.Action, Line: req.Line - 1, Text: req.Text})
	if err != nil {
		s.fail(w, err)
		return
	}
	if updated != src {
		if err := fileutil.WriteFileAtomic(doc.abs, []byte(updated)); err != nil {
			s.fail(w, err)
			return
		}
		s.log.Info("document edited", "path", doc.rel, "action", req.Action, "line", req.Line)
	}
	s.render(w, r, doc, updated, false)
}

// handleSignal resolves a host command for the document.
func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	doc, err := s.resolve(req.Path)
	if err != nil {
		s.fail(w, err)
		return
	}

	sig, err := s.renderer.Signal(req.Action, doc.rel, req.Line)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("signal", "action", sig.Action, "command", sig.Command, "path", sig.Path)
	writeJSON(w, http.StatusOK, sig)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	doc, err := s.resolve(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.comments.Session(doc.rel).List())
}

// handleAddComment attaches a comment to a line. The line's text and type
// are read from the document when the client does not send a type.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	doc, src, err := s.load(req.Path)
	if err != nil {
		s.fail(w, err)
		return
	}

	content, ok := specview.LineContent(src, req.Line-1)
	if !ok {
		s.fail(w, fmt.Errorf("%w: %d", specview.ErrLineOutOfRange, req.Line))
		return
	}

	lineType := req.LineType
	if lineType == "" {
		lineType, err = s.lineType(r, doc, src, req.Line)
		if err != nil {
			s.fail(w, err)
			return
		}
	}

	c, err := s.comments.Session(doc.rel).Add(refine.Comment{
		LineNum:     req.Line,
		LineContent: content,
		Comment:     req.Comment,
		LineType:    lineType,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleDeleteComment removes one comment by id, or every comment of the
// document when no id is given.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	doc, err := s.resolve(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, err)
		return
	}
	session := s.comments.Session(doc.rel)

	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		session.Clear()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	id, err := strconv.Atoi(idParam)
	if err != nil {
		s.fail(w, fmt.Errorf("%w: id must be a number", errBadRequest))
		return
	}
	if err := session.Remove(id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmitComments turns the document's comments into an enhance signal
// carrying the refinement prompt, and clears them.
func (s *Server) handleSubmitComments(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	doc, err := s.resolve(req.Path)
	if err != nil {
		s.fail(w, err)
		return
	}

	sig, err := s.renderer.Signal(specview.SignalEnhance, doc.rel, 0)
	if err != nil {
		s.fail(w, err)
		return
	}
	sig.Prompt, err = s.comments.Session(doc.rel).Submit()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("comments submitted", "path", doc.rel, "command", sig.Command)
	writeJSON(w, http.StatusOK, sig)
}

// load resolves path and reads the document.
func (s *Server) load(path string) (document, string, error) {
	doc, err := s.resolve(path)
	if err != nil {
		return document{}, "", err
	}
	src, err := s.read(doc)
	if err != nil {
		return document{}, "", err
	}
	return doc, src, nil
}

// render writes the JSON render result of src.
func (s *Server) render(w http.ResponseWriter, r *http.Request, doc document, src string, plain bool) {
	result, err := s.renderer.Render(r.Context(), specview.Input{Markdown: src, Path: doc.rel, Plain: plain})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// lineType classifies line by the block it renders to. Lines without a
// block are paragraphs.
func (s *Server) lineType(r *http.Request, doc document, src string, line int) (dom.LineType, error) {
	result, err := s.renderer.Render(r.Context(), specview.Input{Markdown: src, Path: doc.rel})
	if err != nil {
		return "", err
	}
	for _, b := range result.Blocks {
		if b.Line == line {
			return b.Type, nil
		}
	}
	return dom.LineParagraph, nil
}

// fail writes err as a JSON error with a matching status.
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	jsonError(w, err.Error(), code)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, ErrMissingPath),
		errors.Is(err, ErrNotMarkdown),
		errors.Is(err, specview.ErrInvalidAction),
		errors.Is(err, specview.ErrInvalidSignal),
		errors.Is(err, refine.ErrEmptyComment),
		errors.Is(err, refine.ErrCommentTooLong),
		errors.Is(err, refine.ErrInvalidLine),
		errors.Is(err, refine.ErrInvalidLineType),
		errors.Is(err, refine.ErrNoComments):
		return http.StatusBadRequest
	case errors.Is(err, fileutil.ErrOutsideRoot):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, refine.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, specview.ErrLineOutOfRange):
		return http.StatusConflict
	case errors.Is(err, specview.ErrNoCommand):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
