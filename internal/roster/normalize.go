package roster

import (
	"strconv"
	"strings"
)

// CleanCell normalizes a raw cell value: trims whitespace, strips a
// leading '=' (spreadsheet formula escape) and any surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// NormalizeRow converts one raw row into a Record using the column
// mapping. The second return value is false when the row must be skipped:
// too short to reach the name or email column, or either cell empty after
// cleaning. A skip is not an error; callers count skips in aggregate.
//
// Role defaults to the baseline participant label when the role cell is
// absent or empty. A rank cell that is missing, non-numeric, or not a
// positive integer leaves the record unranked.
func NormalizeRow(row []string, mapping ColumnMapping) (Record, bool) {
	name := cellAt(row, mapping.Name)
	email := cellAt(row, mapping.Email)
	if name == "" || email == "" {
		return Record{}, false
	}

	rec := Record{
		Name:  name,
		Email: email,
		Role:  ParseRole(cellAt(row, mapping.Role)),
	}

	if raw := cellAt(row, mapping.Rank); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			rec.Rank = n
		}
	}

	return rec, true
}

// cellAt returns the cleaned cell at idx, or "" when the field is absent
// or the row is too short.
func cellAt(row []string, idx int) string {
	if idx == ColumnAbsent || idx >= len(row) {
		return ""
	}
	return CleanCell(row[idx])
}
