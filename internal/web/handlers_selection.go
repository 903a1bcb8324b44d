package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/certeo/roster/internal/roster"
)

// SelectionResponse reports the current selection state. FullySelected is
// derived against the live roster on every read, never stored.
type SelectionResponse struct {
	IDs           []roster.ID `json:"ids"`
	Count         int         `json:"count"`
	FullySelected bool        `json:"fullySelected"`
}

// handleGetSelection returns the selected identities and the tri-state
// "all selected" indicator.
func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := SelectionResponse{
		IDs:           s.selection.IDs(),
		Count:         s.selection.Count(),
		FullySelected: s.selection.FullySelected(s.store.Len(), s.store.IDs()),
	}
	s.mu.Unlock()

	writeJSON(w, resp)
}

// handleToggleSelection flips the selected state of one identity.
func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID roster.ID `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	ok := s.store.Contains(req.ID)
	if ok {
		s.selection.Toggle(req.ID)
	}
	count := s.selection.Count()
	s.mu.Unlock()

	if !ok {
		s.respondError(w, r, errors.New("record not found"), http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]int{"count": count})
}

// handleSelectAllVisible selects every identity on the current page,
// keeping any selection made on other pages. Identities no longer in the
// store are ignored so the selection never references a removed record.
func (s *Server) handleSelectAllVisible(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []roster.ID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	visible := req.IDs[:0:0]
	for _, id := range req.IDs {
		if s.store.Contains(id) {
			visible = append(visible, id)
		}
	}
	s.selection.SelectAll(visible)
	count := s.selection.Count()
	s.mu.Unlock()

	writeJSON(w, map[string]int{"count": count})
}

// handleClearSelection empties the selection.
func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.selection.Clear()
	s.mu.Unlock()

	writeJSON(w, map[string]string{"status": "cleared"})
}
