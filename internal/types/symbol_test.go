package types

import "testing"

func TestComputeSymbolID_Deterministic(t *testing.T) {
	id1 := ComputeSymbolID("ws1", "src/main.go", KindFunction, "main", 42)
	id2 := ComputeSymbolID("ws1", "src/main.go", KindFunction, "main", 42)
	if id1 != id2 {
		t.Fatalf("expected deterministic ID, got %q and %q", id1, id2)
	}
}

func TestComputeSymbolID_DiffersOnAnyField(t *testing.T) {
	base := ComputeSymbolID("ws1", "src/main.go", KindFunction, "main", 42)

	cases := []string{
		ComputeSymbolID("ws2", "src/main.go", KindFunction, "main", 42),
		ComputeSymbolID("ws1", "src/other.go", KindFunction, "main", 42),
		ComputeSymbolID("ws1", "src/main.go", KindMethod, "main", 42),
		ComputeSymbolID("ws1", "src/main.go", KindFunction, "other", 42),
		ComputeSymbolID("ws1", "src/main.go", KindFunction, "main", 43),
	}

	for i, c := range cases {
		if c == base {
			t.Errorf("case %d: expected a different ID than base, got the same %q", i, c)
		}
	}
}

func TestComputeSymbolID_FixedWidthHex(t *testing.T) {
	id := ComputeSymbolID("ws1", "a.go", KindVariable, "x", 0)
	if len(id) != 16 {
		t.Fatalf("expected 16 hex chars (64-bit), got %d: %q", len(id), id)
	}
}
