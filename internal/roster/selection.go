package roster

// selection.go tracks the set of identities marked selected.
//
// Selection is modeled purely as a set of canonical identities; any "all
// selected" indicator is derived by comparing the set against the live
// roster rather than stored as a flag that could desynchronize. Selecting
// all rows on a page adds to the set, so a selection can span pages.
// Members are pruned synchronously by the same caller that removes records
// from the store, so the selection is always a subset of store identities.

import "sort"

// Selection is a set of selected record identities.
type Selection struct {
	ids map[ID]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[ID]struct{})}
}

// Toggle flips the selected state of one identity.
func (sel *Selection) Toggle(id ID) {
	if _, ok := sel.ids[id]; ok {
		delete(sel.ids, id)
	} else {
		sel.ids[id] = struct{}{}
	}
}

// SelectAll marks every given identity selected, on top of any existing
// selection from other pages.
func (sel *Selection) SelectAll(visible []ID) {
	for _, id := range visible {
		sel.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (sel *Selection) Clear() {
	sel.ids = make(map[ID]struct{})
}

// Has reports whether an identity is selected.
func (sel *Selection) Has(id ID) bool {
	_, ok := sel.ids[id]
	return ok
}

// Count returns the number of selected identities.
func (sel *Selection) Count() int {
	return len(sel.ids)
}

// IDs returns the selected identities in a deterministic order.
func (sel *Selection) IDs() []ID {
	out := make([]ID, 0, len(sel.ids))
	for id := range sel.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Prune drops every identity for which exists reports false. Callers run
// this after any store removal or bulk replace.
func (sel *Selection) Prune(exists func(ID) bool) {
	for id := range sel.ids {
		if !exists(id) {
			delete(sel.ids, id)
		}
	}
}

// FullySelected reports whether the whole roster is selected: the set
// covers every record and every currently visible identity is in it.
// Drives the tri-state appearance of a combined checkbox.
func (sel *Selection) FullySelected(total int, visible []ID) bool {
	if total == 0 || len(sel.ids) != total {
		return false
	}
	for _, id := range visible {
		if !sel.Has(id) {
			return false
		}
	}
	return true
}
