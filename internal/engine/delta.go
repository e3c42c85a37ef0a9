package engine

import (
	"nggo/internal/board"
	"nggo/internal/domain/game"
)

// Delta is what a renderer needs to go from one position to the next.
type Delta struct {
	AddedStones   []board.Cell[game.Color]      `json:"added_stones"`
	RemovedStones []board.Point                 `json:"removed_stones"`
	AddedMarkup   []board.Cell[game.Annotation] `json:"added_markup"`
	RemovedMarkup []board.Point                 `json:"removed_markup"`
}

func (d Delta) IsEmpty() bool {
	return len(d.AddedStones) == 0 && len(d.RemovedStones) == 0 &&
		len(d.AddedMarkup) == 0 && len(d.RemovedMarkup) == 0
}

// Diff compares two positions cell by cell. A changed stone or annotation is
// reported as removed and then added. A nil prev counts as an empty board of
// next's size.
func Diff(prev, next *Position) Delta {
	if prev == nil {
		prev = NewPosition(next.Size())
	}
	return Delta{
		AddedStones:   added(prev.Stones, next.Stones),
		RemovedStones: removed(prev.Stones, next.Stones),
		AddedMarkup:   added(prev.Markup, next.Markup),
		RemovedMarkup: removed(prev.Markup, next.Markup),
	}
}

func added[T comparable](prev, next *board.Grid[T]) []board.Cell[T] {
	cells := make([]board.Cell[T], 0)
	for _, c := range next.Cells() {
		if !prev.Is(c.X, c.Y, c.Value) {
			cells = append(cells, c)
		}
	}
	return cells
}

func removed[T comparable](prev, next *board.Grid[T]) []board.Point {
	points := make([]board.Point, 0)
	for _, c := range prev.Cells() {
		if !next.Is(c.X, c.Y, c.Value) {
			points = append(points, board.Point{X: c.X, Y: c.Y})
		}
	}
	return points
}
