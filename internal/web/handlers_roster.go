package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/certeo/roster/internal/roster"
)

// RosterRow is one projected row with its selection state.
type RosterRow struct {
	ID       roster.ID     `json:"id"`
	Record   roster.Record `json:"record"`
	Selected bool          `json:"selected"`
}

// RosterResponse is the paged roster view.
type RosterResponse struct {
	Rows       []RosterRow `json:"rows"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	TotalRows  int         `json:"totalRows"`
}

// handleListRoster returns one page of the sorted roster projection.
// Query parameters: sort (name|role|rank), dir (asc|desc), page, pageSize.
// The requested page is clamped into the valid range; resetting to page 1
// on a sort change is the frontend's job since only it knows the previous
// sort state.
func (s *Server) handleListRoster(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseViewQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if totalPages := pageCount(s.store.Len(), q.PageSize); q.Page > totalPages && totalPages > 0 {
		q.Page = totalPages
	}

	proj := s.projector.Project(s.store, q)

	rows := make([]RosterRow, len(proj.Rows))
	for i, e := range proj.Rows {
		rows[i] = RosterRow{ID: e.ID, Record: e.Record, Selected: s.selection.Has(e.ID)}
	}

	writeJSON(w, RosterResponse{
		Rows:       rows,
		Page:       proj.Page,
		TotalPages: proj.TotalPages,
		TotalRows:  proj.TotalRows,
	})
}

// handleUpdateRecord replaces one record by identity.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := roster.ID(chi.URLParam(r, "id"))

	var rec roster.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if rec.Name == "" || rec.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email must not be empty")
		return
	}
	if rec.Role == "" {
		rec.Role = roster.RoleParticipant
	}

	s.mu.Lock()
	ok := s.store.Update(id, rec)
	s.mu.Unlock()

	if !ok {
		s.respondError(w, r, errors.New("record not found"), http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]string{"status": "updated"})
}

// handleDeleteRecord removes one record by identity and prunes it from the
// selection in the same critical section.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := roster.ID(chi.URLParam(r, "id"))

	s.mu.Lock()
	ok := s.store.Remove(id)
	if ok {
		s.selection.Prune(s.store.Contains)
	}
	s.mu.Unlock()

	if !ok {
		s.respondError(w, r, errors.New("record not found"), http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]string{"status": "removed"})
}

// handleBulkDelete removes many records by identity. Unknown identities
// are ignored; the response reports how many were actually removed.
func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []roster.ID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	removed := s.store.RemoveMany(req.IDs)
	if removed > 0 {
		s.selection.Prune(s.store.Contains)
	}
	s.mu.Unlock()

	writeJSON(w, map[string]int{"removed": removed})
}

// handleExport downloads the roster as CSV in insertion order, the same
// tuple set that came out of ingestion.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := s.store.Records()
	s.mu.Unlock()

	filename := fmt.Sprintf("roster_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("X-Content-Type-Options", "nosniff")

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Email", "Role", "Rank"}); err != nil {
		return
	}
	for _, rec := range records {
		rank := ""
		if rec.Ranked() {
			rank = strconv.Itoa(rec.Rank)
		}
		if err := cw.Write([]string{rec.Name, rec.Email, string(rec.Role), rank}); err != nil {
			return
		}
	}
	cw.Flush()
}

// handleSave invokes the save hook with the full roster contents. A save
// failure leaves the roster unchanged and is surfaced distinctly from
// format errors so the frontend can offer a retry without re-parsing.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := s.store.Records()
	s.mu.Unlock()

	if err := s.saver.Save(r.Context(), records); err != nil {
		s.respondError(w, r, err, http.StatusBadGateway)
		return
	}

	writeJSON(w, map[string]any{"status": "saved", "records": len(records)})
}

// parseViewQuery builds a projection query from URL parameters.
func (s *Server) parseViewQuery(r *http.Request) (roster.Query, error) {
	q := roster.Query{
		Dir:      roster.Ascending,
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "pageSize", s.cfg.View.PageSize),
	}

	switch field := r.URL.Query().Get("sort"); field {
	case "", "none":
		q.Field = roster.SortNone
	case "name", "role", "rank":
		q.Field = roster.SortField(field)
	default:
		return roster.Query{}, fmt.Errorf("unknown sort field %q", field)
	}

	switch dir := r.URL.Query().Get("dir"); dir {
	case "", "asc":
	case "desc":
		q.Dir = roster.Descending
	default:
		return roster.Query{}, fmt.Errorf("unknown sort direction %q", dir)
	}

	return q, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// pageCount mirrors the projector's total-page computation for clamping.
func pageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
