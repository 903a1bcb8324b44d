package roster

import "testing"

func testRecords() []Record {
	return []Record{
		{Name: "Ana", Email: "ana@x.com", Role: RoleParticipant},
		{Name: "Bob", Email: "bob@x.com", Role: RoleSpeaker},
		{Name: "Carol", Email: "carol@x.com", Role: RoleWinner, Rank: 1},
	}
}

func TestStore_AddGet(t *testing.T) {
	s := NewStore()

	rec := Record{Name: "Ana", Email: "ana@x.com", Role: RoleParticipant}
	id := s.Add(rec)

	got, ok := s.Get(id)
	if !ok {
		t.Fatal("Get() ok = false after Add")
	}
	if got != rec {
		t.Errorf("Get() = %+v, want %+v", got, rec)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_UniqueIdentities(t *testing.T) {
	s := NewStore()

	seen := make(map[ID]bool)
	for _, rec := range testRecords() {
		id := s.Add(rec)
		if seen[id] {
			t.Fatalf("identity %q assigned twice", id)
		}
		seen[id] = true
	}
}

func TestStore_Update(t *testing.T) {
	s := NewStore()
	id := s.Add(Record{Name: "Ana", Email: "ana@x.com", Role: RoleParticipant})

	updated := Record{Name: "Ana", Email: "ana@x.com", Role: RoleSpeaker}
	if !s.Update(id, updated) {
		t.Fatal("Update() = false for existing identity")
	}
	if got, _ := s.Get(id); got != updated {
		t.Errorf("Get() = %+v, want %+v", got, updated)
	}

	if s.Update(ID("missing"), updated) {
		t.Error("Update() = true for unknown identity")
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	ids := s.ReplaceAll(testRecords())

	if !s.Remove(ids[1]) {
		t.Fatal("Remove() = false for existing identity")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	// Remaining identities stay resolvable after positions shift.
	if got, ok := s.Get(ids[2]); !ok || got.Name != "Carol" {
		t.Errorf("Get(ids[2]) = %+v, %v; want Carol", got, ok)
	}

	// Removing again is a no-op reported as not found.
	if s.Remove(ids[1]) {
		t.Error("Remove() = true for already removed identity")
	}
}

func TestStore_RemoveMany(t *testing.T) {
	s := NewStore()
	ids := s.ReplaceAll(testRecords())

	removed := s.RemoveMany([]ID{ids[0], ids[2], ID("missing")})
	if removed != 2 {
		t.Errorf("RemoveMany() = %d, want 2", removed)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if got, ok := s.Get(ids[1]); !ok || got.Name != "Bob" {
		t.Errorf("surviving record = %+v, %v; want Bob", got, ok)
	}
}

func TestStore_ReplaceAllInvalidatesIdentities(t *testing.T) {
	s := NewStore()
	oldIDs := s.ReplaceAll(testRecords())

	newIDs := s.ReplaceAll(testRecords())

	for _, id := range oldIDs {
		if s.Contains(id) {
			t.Errorf("old identity %q still resolvable after ReplaceAll", id)
		}
	}
	for _, id := range newIDs {
		if !s.Contains(id) {
			t.Errorf("new identity %q not resolvable", id)
		}
	}
}

func TestStore_InsertionOrderPreserved(t *testing.T) {
	s := NewStore()
	recs := testRecords()
	s.ReplaceAll(recs)

	entries := s.Entries()
	for i, e := range entries {
		if e.Record != recs[i] {
			t.Errorf("Entries()[%d] = %+v, want %+v", i, e.Record, recs[i])
		}
	}
}
