package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/mirror/internal/layout"
	"github.com/dgallion1/mirror/internal/selection"
)

type frameRequest struct {
	Viewport layout.Rect     `json:"viewport"`
	Width    float64         `json:"width"`
	Input    selection.Input `json:"input"`
}

// handleFrame runs one layout pass with the client's viewport and pointer
// state and returns heights, counters, the selection and its bar.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid frame request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Width <= 0 {
		jsonError(w, "width must be positive", http.StatusBadRequest)
		return
	}
	if req.Viewport.MaxY < req.Viewport.MinY || req.Viewport.MaxX < req.Viewport.MinX {
		jsonError(w, "viewport max must not be below min", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, documentFrom(r).Frame(req.Viewport, req.Width, req.Input))
}

type selectRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid selection: "+err.Error(), http.StatusBadRequest)
		return
	}
	doc := documentFrom(r)
	if err := doc.Select(req.Start, req.End); err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, doc.Selection())
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	doc := documentFrom(r)
	doc.ClearSelection()
	writeJSON(w, http.StatusOK, doc.Selection())
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid comment: "+err.Error(), http.StatusBadRequest)
		return
	}
	c, path, err := documentFrom(r).AttachComment(req.Text)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	resp := map[string]any{"comment": c, "queued": path == ""}
	if path != "" {
		resp["review_file"] = path
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"comments": documentFrom(r).Queued()})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	path, err := documentFrom(r).Submit()
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"review_file": path})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	path, err := documentFrom(r).Approve()
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"review_file": path, "approved": true})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
