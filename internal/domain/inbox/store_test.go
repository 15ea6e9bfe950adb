package inbox

import (
	"testing"
	"time"
)

func TestMemoryStoreOrderAndLookup(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.Add(&Item{ID: "old", Body: "a", Timestamp: base})
	s.Add(&Item{ID: "new", Body: "b", Timestamp: base.Add(time.Hour)})
	s.Add(&Item{ID: "mid", Body: "c", Timestamp: base.Add(30 * time.Minute)})

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("List() returned %d items, want 3", len(list))
	}
	wantOrder := []ItemID{"new", "mid", "old"}
	for i, id := range wantOrder {
		if list[i].ID != id {
			t.Errorf("List()[%d].ID = %s, want %s", i, list[i].ID, id)
		}
	}

	if _, ok := s.Get("mid"); !ok {
		t.Error("Get(mid) not found")
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) found")
	}
}

func TestMemoryStoreMarkScanned(t *testing.T) {
	s := NewMemoryStore()
	s.Add(&Item{ID: "m1", ContainsURL: true, URLs: []string{"https://a.com"}})
	s.Add(&Item{ID: "m2", ContainsURL: false})

	if got := len(s.Unscanned()); got != 1 {
		t.Fatalf("Unscanned() = %d items, want 1", got)
	}

	s.MarkScanned("m1", "threat-1")
	item, _ := s.Get("m1")
	if !item.Scanned {
		t.Error("item not marked scanned")
	}
	if len(item.ThreatIDs) != 1 || item.ThreatIDs[0] != "threat-1" {
		t.Errorf("ThreatIDs = %v, want [threat-1]", item.ThreatIDs)
	}
	if got := len(s.Unscanned()); got != 0 {
		t.Errorf("Unscanned() after mark = %d items, want 0", got)
	}

	// unknown id is a no-op
	s.MarkScanned("ghost", "x")
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.Add(&Item{ID: "m1", Body: "original"})
	item, _ := s.Get("m1")
	item.Body = "mutated"
	again, _ := s.Get("m1")
	if again.Body != "original" {
		t.Errorf("store leaked internal pointer, Body = %q", again.Body)
	}
}
