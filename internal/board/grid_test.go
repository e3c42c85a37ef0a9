package board

import "testing"

func TestIsOnGrid(t *testing.T) {
	for _, n := range []int{0, 1, 5, 19} {
		g := New[int](n)
		for x := -2; x < n+2; x++ {
			for y := -2; y < n+2; y++ {
				want := x >= 0 && y >= 0 && x < n && y < n
				if got := g.IsOnGrid(x, y); got != want {
					t.Fatalf("size %d: IsOnGrid(%d,%d) = %v, want %v", n, x, y, got, want)
				}
			}
		}
	}
}

func TestOutOfBoundsAccess(t *testing.T) {
	g := New[int](3)
	g.Set(-1, 0, 7)
	g.Set(3, 3, 7)
	if cells := g.Cells(); len(cells) != 0 {
		t.Fatalf("out of bounds Set mutated grid: %v", cells)
	}
	if v := g.Get(10, 10); v != 0 {
		t.Errorf("Get off grid = %d, want 0", v)
	}
	if v := g.GetOr(-1, 2, 42); v != 42 {
		t.Errorf("GetOr off grid = %d, want 42", v)
	}
	if g.Has(5, 5) {
		t.Error("Has off grid should be false")
	}
}

func TestNegativeSize(t *testing.T) {
	g := New[string](-4)
	if g.Size() != 0 {
		t.Fatalf("size = %d, want 0", g.Size())
	}
	if g.IsOnGrid(0, 0) {
		t.Fatal("empty grid has no cells")
	}
}

func TestSetSizeClears(t *testing.T) {
	g := New[int](4)
	g.Set(1, 1, 3)
	g.SetSize(4)
	if g.Has(1, 1) {
		t.Fatal("SetSize must discard contents")
	}
}

func TestRemoveAllOrder(t *testing.T) {
	g := New[int](3)
	g.Set(2, 0, 1)
	g.Set(0, 2, 2)
	g.Set(0, 1, 3)
	g.Set(1, 1, 4)

	removed := g.RemoveAll()
	want := []int{3, 2, 4, 1}
	if len(removed) != len(want) {
		t.Fatalf("removed %v, want %v", removed, want)
	}
	for i := range want {
		if removed[i] != want[i] {
			t.Fatalf("removed %v, want %v", removed, want)
		}
	}
	if len(g.Cells()) != 0 {
		t.Fatal("grid not empty after RemoveAll")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New[int](2)
	g.Set(0, 0, 1)
	c := g.Clone()
	c.Set(0, 0, 2)
	c.Set(1, 1, 5)

	if g.Get(0, 0) != 1 || g.Has(1, 1) {
		t.Fatal("mutating the clone changed the original")
	}
	if !g.Equal(g.Clone()) {
		t.Fatal("fresh clone should be equal")
	}
	if g.Equal(c) {
		t.Fatal("diverged clone should not be equal")
	}
}

func TestPopulateAndIs(t *testing.T) {
	g := New[int](2)
	g.Populate(9)
	if !g.Is(1, 0, 9) || g.Is(1, 0, 8) || g.Is(2, 0, 9) {
		t.Fatal("Populate/Is mismatch")
	}
	g.Unset(1, 0)
	if g.Has(1, 0) {
		t.Fatal("Unset left a value")
	}
}

func TestNeighbors(t *testing.T) {
	g := New[int](3)
	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 2},
		{1, 0, 3},
		{1, 1, 4},
		{2, 2, 2},
	}
	for _, tt := range tests {
		if got := len(g.Neighbors(tt.x, tt.y)); got != tt.want {
			t.Errorf("Neighbors(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}
