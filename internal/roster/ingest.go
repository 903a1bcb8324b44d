package roster

// ingest.go drives normalization across an entire file.
//
// Two input forms are accepted: delimited text (comma-separated, row 0 is
// the header) and a row-major 2-D cell array produced by an external
// spreadsheet decoder. Both run column detection once on the header row,
// then normalize every data row, collecting accepted records in original
// row order and counting skips. Ingestion never touches a store; the
// caller commits the result explicitly via Store.ReplaceAll, so an
// abandoned ingestion has no side effects.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"
)

// IngestResult is the outcome of a successful ingestion.
// len(Records) + Skipped == TotalRows always holds; TotalRows counts data
// rows only, not the header.
type IngestResult struct {
	Records   []Record
	Skipped   int
	TotalRows int
}

// IngestCSV parses delimited-text content and ingests it.
// Fatal outcomes: ErrEmptyFile, ErrNoDataRows, MissingColumnError.
func IngestCSV(data []byte) (*IngestResult, error) {
	data = sanitizeUTF8(data)

	rows, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return IngestSheet(rows)
}

// IngestSheet ingests a row-major 2-D cell array. Row 0 is the header.
// Blank rows are dropped before header detection, matching the
// delimited-text path.
func IngestSheet(rows [][]string) (*IngestResult, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	if len(rows) == 1 {
		return nil, ErrNoDataRows
	}

	mapping, err := DetectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &IngestResult{TotalRows: len(rows) - 1}
	for _, row := range rows[1:] {
		rec, ok := NormalizeRow(row, mapping)
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// parseCSV reads all rows from comma-separated content. Rows may have
// uneven lengths; short rows are handled during normalization.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// dropBlankRows removes rows whose cells are all empty after cleaning.
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		if !blankRow(row) {
			out = append(out, row)
		}
	}
	return out
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if CleanCell(cell) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid UTF-8 byte sequences with the replacement
// character so downstream string handling is safe.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
