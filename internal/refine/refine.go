// Package refine holds review comments attached to rendered lines until they
// are submitted as one refinement request. Comments live in memory only and
// are never written to the source document.
package refine

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/alnah/go-specview/internal/dom"
)

// Sentinel errors for session operations.
var (
	ErrEmptyComment    = errors.New("comment cannot be empty")
	ErrCommentTooLong  = errors.New("comment too long")
	ErrInvalidLine     = errors.New("line number must be positive")
	ErrInvalidLineType = errors.New("invalid line type")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNoComments      = errors.New("no comments to submit")
)

// MaxCommentLength caps a single comment.
const MaxCommentLength = 4000

// Comment is a proposed change to one source line.
type Comment struct {
	ID          int          `json:"id"`
	LineNum     int          `json:"lineNum"`
	LineContent string       `json:"lineContent"`
	Comment     string       `json:"comment"`
	LineType    dom.LineType `json:"lineType"`
}

// Session collects the comments for one document, at most one per line.
// Safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	path   string
	nextID int
	byLine *treemap.Map // line -> Comment
}

// NewSession creates an empty session for the document at path.
func NewSession(path string) *Session {
	return &Session{path: path, byLine: treemap.NewWithIntComparator()}
}

// Path returns the document the session belongs to.
func (s *Session) Path() string {
	return s.path
}

// Add stores c under a new id. A comment already on the same line is
// replaced. An empty line type defaults to paragraph.
func (s *Session) Add(c Comment) (Comment, error) {
	c.Comment = strings.TrimSpace(c.Comment)
	switch {
	case c.Comment == "":
		return Comment{}, ErrEmptyComment
	case len(c.Comment) > MaxCommentLength:
		return Comment{}, fmt.Errorf("%w: %d chars, max %d", ErrCommentTooLong, len(c.Comment), MaxCommentLength)
	case c.LineNum < 1:
		return Comment{}, fmt.Errorf("%w: %d", ErrInvalidLine, c.LineNum)
	}
	if c.LineType == "" {
		c.LineType = dom.LineParagraph
	}
	if !c.LineType.Valid() {
		return Comment{}, fmt.Errorf("%w: %q", ErrInvalidLineType, c.LineType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	s.byLine.Put(c.LineNum, c)
	return c, nil
}

// Remove deletes the comment with id.
func (s *Session) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := s.byLine.Iterator()
	for it.Next() {
		if it.Value().(Comment).ID == id {
			s.byLine.Remove(it.Key())
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrCommentNotFound, id)
}

// List returns the comments ordered by line.
func (s *Session) List() []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Len returns the number of comments.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byLine.Size()
}

// Clear drops every comment.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byLine.Clear()
}

// Submit formats the comments as a refinement prompt and clears the session.
func (s *Session) Submit() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byLine.Empty() {
		return "", ErrNoComments
	}
	prompt := FormatPrompt(s.path, s.listLocked())
	s.byLine.Clear()
	return prompt, nil
}

func (s *Session) listLocked() []Comment {
	out := make([]Comment, 0, s.byLine.Size())
	for _, v := range s.byLine.Values() {
		out = append(out, v.(Comment))
	}
	return out
}

// Store keeps one session per document path. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Session returns the session for path, creating it on first use.
func (st *Store) Session(path string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[path]
	if !ok {
		s = NewSession(path)
		st.sessions[path] = s
	}
	return s
}

// Drop discards the session for path.
func (st *Store) Drop(path string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, path)
}
