package roster

// store.go owns the canonical ordered roster collection.
//
// Each record gets a stable identifier at insertion and is always resolved
// by that identifier, never by position: positions shift when records are
// removed or when a view is sorted, so an identity must survive both.
// Identities are never reused; ReplaceAll assigns a fresh set and
// invalidates every prior identity, so callers must discard selections
// after a bulk import.
//
// The store is single-writer by design: all mutation happens synchronously
// on one control-flow thread between suspension points, so it carries no
// locking. A caller serving concurrent requests wraps it in its own mutex.

import "github.com/google/uuid"

// ID is a canonical record identity.
type ID string

// Entry pairs an identity with its record.
type Entry struct {
	ID     ID     `json:"id"`
	Record Record `json:"record"`
}

// Store maintains the canonical ordered collection of records and is the
// sole writer of record data.
type Store struct {
	entries []Entry
	index   map[ID]int
}

// NewStore creates an empty roster store.
func NewStore() *Store {
	return &Store{index: make(map[ID]int)}
}

func newID() ID {
	return ID(uuid.New().String())
}

// Len returns the number of records in the roster.
func (s *Store) Len() int {
	return len(s.entries)
}

// Add appends a record and returns its new identity.
func (s *Store) Add(rec Record) ID {
	id := newID()
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, Entry{ID: id, Record: rec})
	return id
}

// Get returns the record for an identity.
func (s *Store) Get(id ID) (Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.entries[i].Record, true
}

// Contains reports whether an identity currently exists in the roster.
func (s *Store) Contains(id ID) bool {
	_, ok := s.index[id]
	return ok
}

// Update replaces the record for an identity. Returns false when the
// identity is not in the roster.
func (s *Store) Update(id ID, rec Record) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries[i].Record = rec
	return true
}

// Remove deletes one record by identity. Removing an unknown identity is
// a no-op reported as false.
func (s *Store) Remove(id ID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].ID] = j
	}
	return true
}

// RemoveMany deletes records by identity and returns how many were
// actually removed. Unknown identities are ignored.
func (s *Store) RemoveMany(ids []ID) int {
	doomed := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return 0
	}

	kept := s.entries[:0]
	for _, e := range s.entries {
		if doomed[e.ID] {
			delete(s.index, e.ID)
			continue
		}
		s.index[e.ID] = len(kept)
		kept = append(kept, e)
	}
	s.entries = kept
	return len(doomed)
}

// ReplaceAll swaps the entire roster for the given records, assigning
// fresh identities in order. All prior identities become invalid; callers
// must treat any existing selection as stale.
func (s *Store) ReplaceAll(records []Record) []ID {
	s.entries = make([]Entry, 0, len(records))
	s.index = make(map[ID]int, len(records))

	ids := make([]ID, len(records))
	for i, rec := range records {
		id := newID()
		ids[i] = id
		s.index[id] = i
		s.entries = append(s.entries, Entry{ID: id, Record: rec})
	}
	return ids
}

// Entries returns the roster in insertion order. The slice is a copy;
// record data is owned by the store.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IDs returns all identities in insertion order.
func (s *Store) IDs() []ID {
	ids := make([]ID, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// Records returns all records in insertion order, for export and for the
// save hook.
func (s *Store) Records() []Record {
	recs := make([]Record, len(s.entries))
	for i, e := range s.entries {
		recs[i] = e.Record
	}
	return recs
}
