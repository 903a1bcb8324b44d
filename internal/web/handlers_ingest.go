package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/certeo/roster/internal/logging"
	"github.com/certeo/roster/internal/roster"
)

// IngestResponse reports the outcome of a committed ingestion:
// "N rows loaded, M rows skipped".
type IngestResponse struct {
	Loaded  int  `json:"loaded"`
	Skipped int  `json:"skipped"`
	Total   int  `json:"total"`
	Saved   bool `json:"saved"`
}

// handleUpload ingests an uploaded delimited-text file and replaces the
// roster with the result. Binary spreadsheets are not decoded here; the
// frontend decodes them and submits the cell rows to /api/roster/sheet.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Ingest.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(header.Filename)); ext {
	case ".csv":
	case ".xlsx", ".xls":
		s.respondError(w, r, fmt.Errorf("%w: %s must be decoded to cell rows first", roster.ErrUnsupportedFormat, ext), http.StatusBadRequest)
		return
	default:
		s.respondError(w, r, fmt.Errorf("%w: %s", roster.ErrUnsupportedFormat, ext), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err), http.StatusBadRequest)
		return
	}

	result, err := roster.IngestCSV(data)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	s.commitIngest(w, r, result)
}

// handleIngestSheet ingests a row-major 2-D cell array produced by the
// frontend's spreadsheet decoder.
func (s *Server) handleIngestSheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Ingest.MaxFileSize)

	var req struct {
		Rows [][]string `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := roster.IngestSheet(req.Rows)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	s.commitIngest(w, r, result)
}

// commitIngest replaces the roster with an ingestion result. The commit is
// all-or-nothing: a failed ingestion never reaches this point, and prior
// identities plus the selection are discarded atomically. The snapshot
// save is best-effort; a failure is reported in the response but does not
// undo the commit.
func (s *Server) commitIngest(w http.ResponseWriter, r *http.Request, result *roster.IngestResult) {
	s.mu.Lock()
	s.store.ReplaceAll(result.Records)
	s.selection.Clear()
	records := s.store.Records()
	s.mu.Unlock()

	logger := logging.FromContext(r.Context())

	saved := true
	if err := s.saver.Save(r.Context(), records); err != nil {
		saved = false
		logger.Warn("snapshot save failed after ingest", "error", err)
	}

	logger.Info("roster replaced",
		"loaded", len(result.Records),
		"skipped", result.Skipped,
		"saved", saved,
	)

	writeJSON(w, IngestResponse{
		Loaded:  len(result.Records),
		Skipped: result.Skipped,
		Total:   result.TotalRows,
		Saved:   saved,
	})
}
