package api

import (
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/dgallion1/mirror/internal/review"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.svc.List()
	snaps := make([]review.Snapshot, 0, len(docs))
	for _, d := range docs {
		snaps = append(snaps, d.Snapshot())
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": snaps})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, documentFrom(r).Snapshot())
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	doc := documentFrom(r)
	s.svc.Close(doc.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":              doc.ID,
		"deleted":         true,
		"queued_comments": len(doc.Queued()),
	})
}

// handleChunks returns the parsed chunks, optionally limited to a
// [offset, offset+limit) window.
func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	chunks := documentFrom(r).Chunks()
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", len(chunks))
	if offset < 0 || limit < 0 {
		jsonError(w, "offset and limit must not be negative", http.StatusBadRequest)
		return
	}
	window := []doctree.Chunk{}
	if offset < len(chunks) {
		limit = min(limit, len(chunks)-offset)
		window = chunks[offset : offset+limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":  len(chunks),
		"offset": offset,
		"chunks": window,
	})
}

func (s *Server) handleSetSource(w http.ResponseWriter, r *http.Request) {
	doc := documentFrom(r)
	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, "source exceeds max size", http.StatusRequestEntityTooLarge)
		return
	}
	if !utf8.Valid(data) {
		jsonError(w, "source is not valid UTF-8", http.StatusBadRequest)
		return
	}
	doc.SetSource(string(data))
	writeJSON(w, http.StatusOK, doc.Snapshot())
}

// statusFor maps review errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, review.ErrNoSelection),
		errors.Is(err, review.ErrEmptyComment),
		errors.Is(err, review.ErrLineRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, review.ErrNothingToSubmit):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
