package roster

// schema.go maps arbitrary header text to semantic fields.
//
// Real-world rosters arrive with inconsistent column naming and ordering,
// in English or Russian. Detection is heuristic: each semantic field has a
// keyword list, and a header cell matches when its cleaned lowercase form
// contains any keyword. Fields are checked in a fixed order (name, email,
// role, rank) and the first matching column wins per field; a column
// already claimed by an earlier field is skipped. Adversarial headers like
// "email role" are therefore resolved by check order, not by guessing
// further intent.

import "strings"

// ColumnAbsent marks a semantic field with no source column.
const ColumnAbsent = -1

// ColumnMapping holds the source-column index for each semantic field, or
// ColumnAbsent. It is created once per ingestion and discarded afterwards.
type ColumnMapping struct {
	Name  int
	Email int
	Role  int
	Rank  int
}

// fieldKeywords lists detection keywords per semantic field, in the fixed
// checking order. Keyword matching is substring-based over cleaned
// lowercase header cells.
var fieldKeywords = []struct {
	field    string
	keywords []string
}{
	{"name", []string{"name", "fio", "фио", "имя"}},
	{"email", []string{"mail", "почта"}},
	{"role", []string{"role", "роль"}},
	{"rank", []string{"place", "rank", "место"}},
}

// DetectColumns inspects a header row and returns the column mapping.
// It fails with a MissingColumnError when no name or email column can be
// identified; role and rank are optional.
func DetectColumns(header []string) (ColumnMapping, error) {
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = strings.ToLower(CleanCell(h))
	}

	mapping := ColumnMapping{Name: ColumnAbsent, Email: ColumnAbsent, Role: ColumnAbsent, Rank: ColumnAbsent}
	claimed := make(map[int]bool, len(fieldKeywords))

	for _, fk := range fieldKeywords {
		idx := findColumn(cells, fk.keywords, claimed)
		if idx != ColumnAbsent {
			claimed[idx] = true
		}
		switch fk.field {
		case "name":
			mapping.Name = idx
		case "email":
			mapping.Email = idx
		case "role":
			mapping.Role = idx
		case "rank":
			mapping.Rank = idx
		}
	}

	if mapping.Name == ColumnAbsent {
		return ColumnMapping{}, &MissingColumnError{Field: "name"}
	}
	if mapping.Email == ColumnAbsent {
		return ColumnMapping{}, &MissingColumnError{Field: "email"}
	}

	return mapping, nil
}

// findColumn returns the first unclaimed column whose cell contains any of
// the keywords, or ColumnAbsent.
func findColumn(cells []string, keywords []string, claimed map[int]bool) int {
	for i, cell := range cells {
		if claimed[i] || cell == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(cell, kw) {
				return i
			}
		}
	}
	return ColumnAbsent
}
