package excalidraw

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestRandomIDs(t *testing.T) {
	g := NewRandomIDs()
	seen := make(map[string]bool)
	for range 1000 {
		id := g.NewID()
		if len(id) != 12 {
			t.Fatalf("NewID() = %q, want 12 characters", id)
		}
		for _, r := range id {
			if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
				t.Fatalf("NewID() = %q contains %q", id, r)
			}
		}
		if seen[id] {
			t.Fatalf("NewID() repeated %q", id)
		}
		seen[id] = true

		if s := g.NewSeed(); s < 1 || s > 2147483647 {
			t.Fatalf("NewSeed() = %d out of range", s)
		}
	}
}

func TestSeededIDsDeterministic(t *testing.T) {
	a, b := NewSeededIDs(42), NewSeededIDs(42)
	for range 10 {
		if x, y := a.NewID(), b.NewID(); x != y {
			t.Fatalf("seeded generators diverged: %q != %q", x, y)
		}
		if x, y := a.NewSeed(), b.NewSeed(); x != y {
			t.Fatalf("seeded generators diverged: %d != %d", x, y)
		}
	}
	if NewSeededIDs(1).NewID() == NewSeededIDs(2).NewID() {
		t.Errorf("different seeds produced the same first id")
	}
}

func TestUUIDs(t *testing.T) {
	var g UUIDs
	id := g.NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewID() = %q is not a UUID: %v", id, err)
	}
	if s := g.NewSeed(); s < 1 || s > 2147483647 {
		t.Errorf("NewSeed() = %d out of range", s)
	}
}

func TestSequentialIDsConcurrent(t *testing.T) {
	g := &SequentialIDs{Prefix: "n"}
	const workers, per = 8, 100

	ids := make(chan string, workers*per)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range per {
				ids <- g.NewID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*per {
		t.Errorf("got %d ids, want %d", len(seen), workers*per)
	}
}
