package engine

import (
	"nggo/internal/board"
	"nggo/internal/domain/game"
)

// Group is a 4-connected chain of same colored stones and its liberties.
type Group struct {
	Color     game.Color
	Stones    []board.Point
	Liberties []board.Point
}

// FindGroup flood fills from (x, y). An empty or off-grid start yields an
// empty group.
func FindGroup(stones *board.Grid[game.Color], x, y int) Group {
	color := stones.Get(x, y)
	if color == game.None {
		return Group{}
	}

	group := Group{Color: color}
	visited := map[board.Point]bool{{X: x, Y: y}: true}
	seenLiberty := make(map[board.Point]bool)
	stack := []board.Point{{X: x, Y: y}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group.Stones = append(group.Stones, p)

		for _, n := range stones.Neighbors(p.X, p.Y) {
			switch stones.Get(n.X, n.Y) {
			case game.None:
				if !seenLiberty[n] {
					seenLiberty[n] = true
					group.Liberties = append(group.Liberties, n)
				}
			case color:
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return group
}
