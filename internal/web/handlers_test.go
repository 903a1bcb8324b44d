package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/certeo/roster/internal/config"
	"github.com/certeo/roster/internal/roster"
)

// fakeSaver records save calls and can be told to fail.
type fakeSaver struct {
	saved [][]roster.Record
	err   error
}

func (f *fakeSaver) Save(_ context.Context, records []roster.Record) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, records)
	return nil
}

func (f *fakeSaver) Load(context.Context) ([]roster.Record, error) { return nil, nil }
func (f *fakeSaver) Close() error                                  { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: 60 * time.Second,
		},
		Ingest: config.IngestConfig{MaxFileSize: 1 << 20},
		View:   config.ViewConfig{PageSize: 10, Locale: "ru"},
	}
}

func newTestServer(t *testing.T, saver *fakeSaver) *Server {
	t.Helper()
	return NewServer(testConfig(), roster.NewStore(), saver)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func uploadCSV(t *testing.T, s *Server, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/roster/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func listRoster(t *testing.T, s *Server, query string) RosterResponse {
	t.Helper()
	rec := doJSON(t, s, http.MethodGet, "/api/roster/"+query, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/roster %s: status = %d, body = %s", query, rec.Code, rec.Body.String())
	}
	var resp RosterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode roster response: %v", err)
	}
	return resp
}

func TestUpload_CommitsRoster(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestServer(t, saver)

	rec := uploadCSV(t, s, "roster.csv", "Name,Email\nAna,ana@x.com\n,bad@x.com\nBob,bob@x.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Loaded != 2 || resp.Skipped != 1 {
		t.Errorf("loaded = %d, skipped = %d; want 2, 1", resp.Loaded, resp.Skipped)
	}
	if !resp.Saved {
		t.Error("Saved = false, want snapshot written")
	}
	if len(saver.saved) != 1 || len(saver.saved[0]) != 2 {
		t.Errorf("saver recorded %v, want one snapshot of 2 records", saver.saved)
	}

	list := listRoster(t, s, "")
	if list.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", list.TotalRows)
	}
}

func TestUpload_FormatErrorLeavesRosterUntouched(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestServer(t, saver)

	if rec := uploadCSV(t, s, "good.csv", "Name,Email\nAna,ana@x.com"); rec.Code != http.StatusOK {
		t.Fatalf("seed upload failed: %d", rec.Code)
	}

	rec := uploadCSV(t, s, "bad.csv", "Name,Role\nAna,speaker")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "VAL001" {
		t.Errorf("Code = %q, want VAL001", errResp.Code)
	}

	// Prior roster survives the rejected file.
	list := listRoster(t, s, "")
	if list.TotalRows != 1 {
		t.Errorf("TotalRows = %d, want 1", list.TotalRows)
	}
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	s := newTestServer(t, &fakeSaver{})

	for _, filename := range []string{"roster.xlsx", "roster.pdf"} {
		rec := uploadCSV(t, s, filename, "whatever")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", filename, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "FILE003") {
			t.Errorf("%s: body = %s, want code FILE003", filename, rec.Body.String())
		}
	}
}

func TestIngestSheet(t *testing.T) {
	s := newTestServer(t, &fakeSaver{})

	rec := doJSON(t, s, http.MethodPost, "/api/roster/sheet", map[string]any{
		"rows": [][]string{
			{"ФИО", "Почта", "Роль", "Место"},
			{"Анна", "anna@x.ru", "победитель", "1"},
			{"Борис", "boris@x.ru", "", ""},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	list := listRoster(t, s, "?sort=rank&dir=asc")
	if len(list.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(list.Rows))
	}
	if list.Rows[0].Record.Name != "Анна" {
		t.Errorf("first row = %q, want Анна (ranked before unranked)", list.Rows[0].Record.Name)
	}
}

func TestListRoster_SortAndClamp(t *testing.T) {
	s := newTestServer(t, &fakeSaver{})
	uploadCSV(t, s, "roster.csv", "Name,Email\nCarol,c@x.com\nAna,a@x.com\nBob,b@x.com")

	desc := listRoster(t, s, "?sort=name&dir=desc")
	if desc.Rows[0].Record.Name != "Carol" || desc.Rows[2].Record.Name != "Ana" {
		t.Errorf("desc order wrong: %+v", desc.Rows)
	}

	// Page beyond the end clamps to the last page instead of going empty.
	clamped := listRoster(t, s, "?page=99&pageSize=2")
	if clamped.Page != 2 || len(clamped.Rows) != 1 {
		t.Errorf("clamped page = %d with %d rows, want page 2 with 1 row", clamped.Page, len(clamped.Rows))
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/roster/?sort=height", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown sort field: status = %d, want 400", rec.Code)
	}
}

func TestUpdateAndDeleteRecord(t *testing.T) {
	s := newTestServer(t, &fakeSaver{})
	uploadCSV(t, s, "roster.csv", "Name,Email\nAna,a@x.com\nBob,b@x.com")

	list := listRoster(t, s, "")
	id := string(list.Rows[0].ID)

	rec := doJSON(t, s, http.MethodPut, "/api/roster/"+id, roster.Record{
		Name: "Ana Maria", Email: "a@x.com", Role: roster.RoleSpeaker,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if rec := doJSON(t, s, http.MethodPut, "/api/roster/"+id, roster.Record{Email: "a@x.com"}); rec.Code != http.StatusBadRequest {
		t.Errorf("empty name update: status = %d, want 400", rec.Code)
	}

	if rec := doJSON(t, s, http.MethodDelete, "/api/roster/"+id, nil); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodDelete, "/api/roster/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}

	list = listRoster(t, s, "")
	if list.TotalRows != 1 || list.Rows[0].Record.Name != "Bob" {
		t.Errorf("roster after delete = %+v, want only Bob", list.Rows)
	}
}

func TestSelectionFlow(t *testing.T) {
	s := newTestServer(t, &fakeSaver{})
	uploadCSV(t, s, "roster.csv", "Name,Email\nAna,a@x.com\nBob,b@x.com\nCarol,c@x.com")

	list := listRoster(t, s, "")
	ids := make([]string, len(list.Rows))
	for i, row := range list.Rows {
		ids[i] = string(row.ID)
	}

	if rec := doJSON(t, s, http.MethodPost, "/api/selection/toggle", map[string]string{"id": ids[0]}); rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/selection/all", map[string][]string{"ids": ids[1:]}); rec.Code != http.StatusOK {
		t.Fatalf("select-all status = %d", rec.Code)
	}

	var sel SelectionResponse
	rec := doJSON(t, s, http.MethodGet, "/api/selection/", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &sel); err != nil {
		t.Fatalf("decode selection: %v", err)
	}
	if sel.Count != 3 || !sel.FullySelected {
		t.Errorf("selection = %+v, want 3 fully selected", sel)
	}

	// Deleting a selected row prunes it from the selection.
	doJSON(t, s, http.MethodDelete, "/api/roster/"+ids[1], nil)

	rec = doJSON(t, s, http.MethodGet, "/api/selection/", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &sel); err != nil {
		t.Fatalf("decode selection: %v", err)
	}
	if sel.Count != 2 {
		t.Errorf("Count = %d after delete, want 2", sel.Count)
	}
	for _, id := range sel.IDs {
		if string(id) == ids[1] {
			t.Error("deleted identity still selected")
		}
	}

	if rec := doJSON(t, s, http.MethodPost, "/api/selection/toggle", map[string]string{"id": "ghost"}); rec.Code != http.StatusNotFound {
		t.Errorf("toggle unknown id: status = %d, want 404", rec.Code)
	}
}

func TestBulkDelete(t *testing.T) {
	s := newTestServer(t, &fakeSaver{})
	uploadCSV(t, s, "roster.csv", "Name,Email\nAna,a@x.com\nBob,b@x.com\nCarol,c@x.com")

	list := listRoster(t, s, "")
	doomed := []string{string(list.Rows[0].ID), string(list.Rows[2].ID), "ghost"}

	rec := doJSON(t, s, http.MethodPost, "/api/roster/delete", map[string][]string{"ids": doomed})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["removed"] != 2 {
		t.Errorf("removed = %d, want 2", resp["removed"])
	}

	list = listRoster(t, s, "")
	if list.TotalRows != 1 || list.Rows[0].Record.Name != "Bob" {
		t.Errorf("roster after bulk delete = %+v, want only Bob", list.Rows)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t, &fakeSaver{})
	uploadCSV(t, s, "roster.csv", "Name,Email,Role,Place\nAna,a@x.com,winner,1\nBob,b@x.com,,")

	rec := doJSON(t, s, http.MethodGet, "/api/roster/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}

	want := "Name,Email,Role,Rank\nAna,a@x.com,winner,1\nBob,b@x.com,participant,\n"
	if rec.Body.String() != want {
		t.Errorf("export = %q, want %q", rec.Body.String(), want)
	}
}

func TestSave_FailureIsDistinct(t *testing.T) {
	saver := &fakeSaver{}
	s := newTestServer(t, saver)
	uploadCSV(t, s, "roster.csv", "Name,Email\nAna,a@x.com")

	if rec := doJSON(t, s, http.MethodPost, "/api/roster/save", nil); rec.Code != http.StatusOK {
		t.Fatalf("save status = %d", rec.Code)
	}

	saver.err = errors.New("save snapshot: connection refused")
	rec := doJSON(t, s, http.MethodPost, "/api/roster/save", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failed save status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SAVE001") {
		t.Errorf("body = %s, want code SAVE001", rec.Body.String())
	}

	// The roster itself is untouched by the failed save.
	if list := listRoster(t, s, ""); list.TotalRows != 1 {
		t.Errorf("TotalRows = %d, want 1", list.TotalRows)
	}
}
