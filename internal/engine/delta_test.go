package engine

import (
	"testing"

	"nggo/internal/board"
	"nggo/internal/domain/game"
)

func TestDiff(t *testing.T) {
	prev := NewPosition(5)
	prev.Stones.Set(0, 0, game.White)
	prev.Stones.Set(1, 1, game.Black)
	prev.Markup.Set(2, 2, game.Annotation{Type: game.MarkupCircle})

	next := prev.Clone()
	next.Stones.Unset(0, 0)
	next.Stones.Set(1, 1, game.White)
	next.Stones.Set(3, 3, game.Black)
	next.Markup.Unset(2, 2)

	d := Diff(prev, next)
	wantAdded := []board.Cell[game.Color]{
		{X: 1, Y: 1, Value: game.White},
		{X: 3, Y: 3, Value: game.Black},
	}
	if len(d.AddedStones) != 2 || d.AddedStones[0] != wantAdded[0] || d.AddedStones[1] != wantAdded[1] {
		t.Fatalf("added stones = %+v", d.AddedStones)
	}
	if len(d.RemovedStones) != 2 || d.RemovedStones[0] != (board.Point{X: 0, Y: 0}) || d.RemovedStones[1] != (board.Point{X: 1, Y: 1}) {
		t.Fatalf("removed stones = %+v", d.RemovedStones)
	}
	if len(d.AddedMarkup) != 0 || len(d.RemovedMarkup) != 1 {
		t.Fatalf("markup delta = %+v / %+v", d.AddedMarkup, d.RemovedMarkup)
	}
	if d.IsEmpty() {
		t.Fatal("delta is not empty")
	}
	if !Diff(next, next.Clone()).IsEmpty() {
		t.Fatal("identical positions must give an empty delta")
	}
}

func TestDiffFromNothing(t *testing.T) {
	next := NewPosition(3)
	next.Stones.Set(1, 1, game.Black)
	d := Diff(nil, next)
	if len(d.AddedStones) != 1 || len(d.RemovedStones) != 0 {
		t.Fatalf("delta from nil = %+v", d)
	}
}

func TestDiffAlongNavigation(t *testing.T) {
	root := setupRoot(game.Black,
		[][2]int{{0, 1}, {1, 1}},
		[][2]int{{0, 0}, {1, 0}})
	g := loadGame(t, DefaultConfig(), record(5, root))
	before := g.Position()
	g.Play(2, 0, game.Black)

	d := Diff(before, g.Position())
	if len(d.AddedStones) != 1 || len(d.RemovedStones) != 2 {
		t.Fatalf("capture delta = %+v", d)
	}
}
