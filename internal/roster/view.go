package roster

// view.go derives the sorted, paginated projection the operator sees.
//
// A projection is recomputed from the store on every call and never
// cached, so "what is displayed" cannot diverge from "what is stored".
// Rows carry their identities so row-level operations resolve through
// identity, not screen position.
//
// The projector reports the total page count but does not clamp the
// requested page: the caller decides whether to reset to page 1 on a sort
// change or keep its position across row edits.

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField selects which record field orders the projection.
type SortField string

const (
	SortNone SortField = ""
	SortName SortField = "name"
	SortRole SortField = "role"
	SortRank SortField = "rank"
)

// SortDir is the sort direction.
type SortDir string

const (
	Ascending  SortDir = "asc"
	Descending SortDir = "desc"
)

// Query describes one view request. Page is 1-indexed; PageSize must be
// positive.
type Query struct {
	Field    SortField
	Dir      SortDir
	Page     int
	PageSize int
}

// Projection is the derived, read-only view for one page.
type Projection struct {
	Rows       []Entry `json:"rows"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	TotalRows  int     `json:"totalRows"`
}

// Projector computes projections. It carries a collator so name sorting
// is locale-aware; both Latin and Cyrillic scripts order correctly.
type Projector struct {
	collator *collate.Collator
}

// NewProjector creates a projector collating in the given language.
// An unrecognized or empty locale falls back to language-neutral
// collation, which still orders Latin and Cyrillic scripts correctly.
func NewProjector(locale string) *Projector {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Projector{collator: collate.New(tag)}
}

// Project returns the page of (identity, record) rows for the query,
// plus totals. Sorting is stable: ties keep original insertion order.
// A page beyond the last valid page yields empty rows.
func (p *Projector) Project(s *Store, q Query) Projection {
	entries := s.Entries()

	if q.Field != SortNone {
		cmp := p.comparator(q.Field, q.Dir)
		sort.SliceStable(entries, func(i, j int) bool {
			return cmp(entries[i].Record, entries[j].Record) < 0
		})
	}

	total := len(entries)
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = (total + q.PageSize - 1) / q.PageSize
	}

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	var rows []Entry
	if start >= 0 && start < total {
		if end > total {
			end = total
		}
		rows = entries[start:end]
	}

	return Projection{
		Rows:       rows,
		Page:       q.Page,
		TotalPages: totalPages,
		TotalRows:  total,
	}
}

// comparator returns the direction-aware comparison for a sort field.
// Rank builds the direction in rather than flipping afterwards: unranked
// records sort after all ranked ones regardless of direction.
func (p *Projector) comparator(field SortField, dir SortDir) func(a, b Record) int {
	desc := dir == Descending

	switch field {
	case SortName:
		return func(a, b Record) int {
			return flip(p.collator.CompareString(a.Name, b.Name), desc)
		}
	case SortRole:
		return func(a, b Record) int {
			return flip(a.Role.Priority()-b.Role.Priority(), desc)
		}
	case SortRank:
		return func(a, b Record) int {
			if a.Ranked() != b.Ranked() {
				if a.Ranked() {
					return -1
				}
				return 1
			}
			if !a.Ranked() {
				return 0
			}
			return flip(a.Rank-b.Rank, desc)
		}
	default:
		return func(a, b Record) int { return 0 }
	}
}

func flip(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}
