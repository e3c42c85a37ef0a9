// Package board holds the square coordinate grid shared by positions and
// whatever wants to keep one value per intersection.
package board

// Point is a board intersection.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is an occupied grid entry.
type Cell[T comparable] struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Value T   `json:"value"`
}

// Grid is a fixed size square container. The zero value of T is the empty cell.
type Grid[T comparable] struct {
	size  int
	cells [][]T
}

func New[T comparable](size int) *Grid[T] {
	g := &Grid[T]{}
	g.SetSize(size)
	return g
}

// SetSize drops all contents and reinitializes an n×n grid of empty cells.
func (g *Grid[T]) SetSize(n int) {
	if n < 0 {
		n = 0
	}
	g.size = n
	g.cells = make([][]T, n)
	for x := 0; x < n; x++ {
		g.cells[x] = make([]T, n)
	}
}

func (g *Grid[T]) Size() int {
	return g.size
}

// IsOnGrid is the only bounds check; everything else goes through it.
func (g *Grid[T]) IsOnGrid(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

func (g *Grid[T]) Get(x, y int) T {
	var empty T
	return g.GetOr(x, y, empty)
}

// GetOr returns def for coordinates off the grid.
func (g *Grid[T]) GetOr(x, y int, def T) T {
	if !g.IsOnGrid(x, y) {
		return def
	}
	return g.cells[x][y]
}

func (g *Grid[T]) Set(x, y int, v T) {
	if g.IsOnGrid(x, y) {
		g.cells[x][y] = v
	}
}

func (g *Grid[T]) Unset(x, y int) {
	var empty T
	g.Set(x, y, empty)
}

func (g *Grid[T]) Has(x, y int) bool {
	var empty T
	return g.IsOnGrid(x, y) && g.cells[x][y] != empty
}

func (g *Grid[T]) Is(x, y int, v T) bool {
	return g.IsOnGrid(x, y) && g.cells[x][y] == v
}

// Populate sets every cell to v.
func (g *Grid[T]) Populate(v T) {
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			g.cells[x][y] = v
		}
	}
}

// RemoveAll clears the grid and returns what was removed, x outer, y inner.
func (g *Grid[T]) RemoveAll() []T {
	var empty T
	removed := make([]T, 0)
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			if g.cells[x][y] != empty {
				removed = append(removed, g.cells[x][y])
				g.cells[x][y] = empty
			}
		}
	}
	return removed
}

// Cells lists occupied cells in the same order as RemoveAll.
func (g *Grid[T]) Cells() []Cell[T] {
	var empty T
	cells := make([]Cell[T], 0)
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			if g.cells[x][y] != empty {
				cells = append(cells, Cell[T]{X: x, Y: y, Value: g.cells[x][y]})
			}
		}
	}
	return cells
}

func (g *Grid[T]) Clone() *Grid[T] {
	clone := &Grid[T]{size: g.size, cells: make([][]T, g.size)}
	for x := 0; x < g.size; x++ {
		clone.cells[x] = make([]T, g.size)
		copy(clone.cells[x], g.cells[x])
	}
	return clone
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid[T]) Equal(other *Grid[T]) bool {
	if other == nil || g.size != other.size {
		return false
	}
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			if g.cells[x][y] != other.cells[x][y] {
				return false
			}
		}
	}
	return true
}

// Neighbors returns the orthogonal neighbors of (x, y) that are on the grid.
func (g *Grid[T]) Neighbors(x, y int) []Point {
	res := make([]Point, 0, 4)
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if g.IsOnGrid(nx, ny) {
			res = append(res, Point{X: nx, Y: ny})
		}
	}
	return res
}
