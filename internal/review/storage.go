package review

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Position is a 1-based line and column.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Range is the selection a review record refers to.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Record is one line of a review file.
type Record struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id,omitempty"`
	File      string `json:"file"`
	Selection Range  `json:"selection"`
	Text      string `json:"text"`
	Comment   string `json:"comment"`
}

// maxSequenceAttempts bounds how many times a write re-scans for a free
// sequence number when another writer takes the one it picked.
const maxSequenceAttempts = 5

// Storage writes review files for one source file. Each write creates a new
// file <out>/<stem>.review.<N>, N one past the highest existing number.
type Storage struct {
	outDir    string
	filename  string
	sessionID string
	now       func() time.Time

	mu sync.Mutex
}

func NewStorage(outDir, filename, sessionID string) *Storage {
	return &Storage{
		outDir:    outDir,
		filename:  filename,
		sessionID: sessionID,
		now:       time.Now,
	}
}

// BaseName is the file name without directory or extension.
func (s *Storage) BaseName() string {
	base := filepath.Base(s.filename)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return base
}

// NextSequence scans the output directory for existing review files and
// returns the next free number, starting at 1.
func (s *Storage) NextSequence() (int, error) {
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory %s: %w", s.outDir, err)
	}
	entries, err := os.ReadDir(s.outDir)
	if err != nil {
		return 0, fmt.Errorf("scan output directory: %w", err)
	}
	prefix := s.BaseName() + ".review."
	highest := 0
	for _, e := range entries {
		rest, ok := strings.CutPrefix(e.Name(), prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// Path returns the review file path for sequence n.
func (s *Storage) Path(n int) string {
	return filepath.Join(s.outDir, fmt.Sprintf("%s.review.%d", s.BaseName(), n))
}

// WriteReview writes comments as JSON lines to a new review file and
// returns its path.
func (s *Storage) WriteReview(comments []Comment) (string, error) {
	ts := s.now().UTC().Format(time.RFC3339)
	return s.write(func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, c := range comments {
			rec := Record{
				Timestamp: ts,
				SessionID: s.sessionID,
				File:      s.filename,
				Selection: Range{
					Start: Position{Line: c.LineStart, Col: c.ColStart},
					End:   Position{Line: c.LineEnd, Col: c.ColEnd},
				},
				Text:    c.Snippet,
				Comment: c.Text,
			}
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encode comment %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// WriteApproval writes an LGTM marker to a new review file.
func (s *Storage) WriteApproval() (string, error) {
	msg := "LGTM - " + s.now().UTC().Format(time.RFC3339)
	if s.sessionID != "" {
		msg += " (session: " + s.sessionID + ")"
	}
	return s.write(func(w *bufio.Writer) error {
		_, err := w.WriteString(msg + "\n")
		return err
	})
}

// write fills a temp file and links it to the next free review path, so a
// review file is either complete or absent.
func (s *Storage) write(fill func(*bufio.Writer) error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", s.outDir, err)
	}
	tmp, err := os.CreateTemp(s.outDir, "."+s.BaseName()+".review-*")
	if err != nil {
		return "", fmt.Errorf("create review file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := fill(w); err != nil {
		tmp.Close()
		return "", err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write review file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close review file: %w", err)
	}

	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		n, err := s.NextSequence()
		if err != nil {
			return "", err
		}
		path := s.Path(n)
		err = os.Link(tmp.Name(), path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("publish review file %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("no free review sequence after %d attempts", maxSequenceAttempts)
}
