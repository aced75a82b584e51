package common

import "testing"

func TestZigZagIsAPermutationOf64Indices(t *testing.T) {
	seen := make(map[int]bool, 64)
	for _, v := range ZigZag {
		if v < 0 || v > 63 {
			t.Fatalf("zigzag entry out of range: %d", v)
		}
		if seen[v] {
			t.Fatalf("zigzag entry %d repeated", v)
		}
		seen[v] = true
	}
	if len(seen) != 64 {
		t.Fatalf("expected 64 distinct entries, got %d", len(seen))
	}
}

func TestZigZagFirstAndLast(t *testing.T) {
	if ZigZag[0] != 0 {
		t.Fatalf("zigzag[0] = %d, want 0", ZigZag[0])
	}
	if ZigZag[63] != 63 {
		t.Fatalf("zigzag[63] = %d, want 63", ZigZag[63])
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestDivCeil(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{64, 8, 8},
	}
	for _, c := range cases {
		if got := DivCeil(c.a, c.b); got != c.want {
			t.Errorf("DivCeil(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
