package engine

import (
	"nggo/internal/board"
	"nggo/internal/domain/game"
)

// Position is one board state: stones, markup, whose turn it is and what was
// captured in the single transition that produced it.
type Position struct {
	Stones *board.Grid[game.Color]
	Markup *board.Grid[game.Annotation]

	turn          game.Color
	capturedBlack int
	capturedWhite int
	// set when the position comes from a node without a move
	edit bool
}

func NewPosition(size int) *Position {
	return &Position{
		Stones: board.New[game.Color](size),
		Markup: board.New[game.Annotation](size),
		turn:   game.Black,
	}
}

func (p *Position) Size() int {
	return p.Stones.Size()
}

// Clone deep copies the position. Capture counts start at zero on the clone.
func (p *Position) Clone() *Position {
	return &Position{
		Stones: p.Stones.Clone(),
		Markup: p.Markup.Clone(),
		turn:   p.turn,
	}
}

func (p *Position) Turn() game.Color {
	return p.turn
}

func (p *Position) SetTurn(c game.Color) {
	p.turn = c
}

// CaptureCount is the number of stones captured by color in the transition
// that produced this position.
func (p *Position) CaptureCount(by game.Color) int {
	switch by {
	case game.Black:
		return p.capturedBlack
	case game.White:
		return p.capturedWhite
	}
	return 0
}

func (p *Position) addCaptures(by game.Color, n int) {
	switch by {
	case game.Black:
		p.capturedBlack += n
	case game.White:
		p.capturedWhite += n
	}
}

// CaptureAdjacent removes every opponent group next to (x, y) that has no
// liberties left. It reports whether anything was captured.
func (p *Position) CaptureAdjacent(x, y int) bool {
	color := p.Stones.Get(x, y)
	if color == game.None {
		return false
	}

	captured := false
	for _, n := range p.Stones.Neighbors(x, y) {
		if p.Stones.Get(n.X, n.Y) != color.Opponent() {
			continue
		}
		group := FindGroup(p.Stones, n.X, n.Y)
		if len(group.Liberties) == 0 {
			p.removeGroup(group)
			captured = true
		}
	}
	return captured
}

func (p *Position) HasLiberties(x, y int) bool {
	return len(FindGroup(p.Stones, x, y).Liberties) > 0
}

// CaptureGroup removes the whole group at (x, y), crediting the opponent of
// its color, and returns the number of stones removed.
func (p *Position) CaptureGroup(x, y int) int {
	group := FindGroup(p.Stones, x, y)
	p.removeGroup(group)
	return len(group.Stones)
}

func (p *Position) removeGroup(group Group) {
	for _, s := range group.Stones {
		p.Stones.Unset(s.X, s.Y)
	}
	p.addCaptures(group.Color.Opponent(), len(group.Stones))
}

// IsSameAs compares stones only; markup and turn are ignored.
func (p *Position) IsSameAs(other *Position) bool {
	if other == nil {
		return false
	}
	return p.Stones.Equal(other.Stones)
}
