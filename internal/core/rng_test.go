package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestStreamsDiverge(t *testing.T) {
	a := NewStream(7, 0)
	b := NewStream(7, 1)
	same := 0
	for i := 0; i < 64; i++ {
		if a.IntN(1<<30) == b.IntN(1<<30) {
			same++
		}
	}
	if same == 64 {
		t.Fatal("distinct streams produced identical sequences")
	}
}

func TestIntNBounds(t *testing.T) {
	r := NewRNG(1)
	if r.IntN(0) != 0 || r.IntN(-4) != 0 {
		t.Fatal("non-positive bounds should yield 0")
	}
	for i := 0; i < 1000; i++ {
		if v := r.IntN(5); v < 0 || v >= 5 {
			t.Fatalf("IntN(5) out of range: %d", v)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	Register("test-sim", func(map[string]string) Sim { return nil })
	if _, err := Lookup("test-sim"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if _, err := Lookup("missing"); err == nil {
		t.Fatal("expected error for unknown sim")
	}
}
