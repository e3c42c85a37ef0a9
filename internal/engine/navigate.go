package engine

import (
	"nggo/internal/domain/game"
)

// First resets the cursor to the root and rebuilds the history from a blank
// board. The initial turn follows the handicap; the root may override it.
func (g *Game) First() bool {
	if g.tree == nil {
		return false
	}
	g.path = Path{}
	g.node = g.tree.Root()

	blank := NewPosition(g.boardSize())
	if g.Handicap() > 1 {
		blank.SetTurn(game.White)
	}
	g.history.Reset(blank)
	g.executeNode(false)
	return true
}

// Next enters a child of the current node: the remembered one when
// rememberPath is on, the first one otherwise.
func (g *Game) Next() bool {
	if !g.nextNode(0, false) {
		return false
	}
	g.executeNode(true)
	return true
}

// NextAt enters child i of the current node.
func (g *Game) NextAt(i int) bool {
	if !g.nextNode(i, true) {
		return false
	}
	g.executeNode(true)
	return true
}

func (g *Game) Previous() bool {
	n := g.Node()
	if n == nil || n.parent == NoNode {
		return false
	}
	g.path.pop()
	g.node = n.parent
	g.history.Pop()
	return true
}

// Last follows remembered paths until a leaf.
func (g *Game) Last() bool {
	moved := false
	for g.Next() {
		moved = true
	}
	return moved
}

// GotoMove replays from the root to ply n along the current path, continuing
// along remembered paths past its end.
func (g *Game) GotoMove(n int) bool {
	if n < 0 {
		n = 0
	}
	choices := g.path.Choices()
	if n < len(choices) {
		choices = choices[:n]
	}
	return g.replay(NewPath(choices...), n)
}

func (g *Game) GotoPath(p Path) bool {
	return g.replay(p, p.Depth())
}

func (g *Game) replay(p Path, depth int) bool {
	if !g.First() {
		return false
	}
	for d := 1; d <= depth; d++ {
		i, explicit := p.Choice(d)
		if !g.nextNode(i, explicit) {
			break
		}
		g.executeNode(true)
	}
	return true
}

// PreviousFork steps back until a node with more than one child or the root.
func (g *Game) PreviousFork() bool {
	moved := false
	for g.Previous() {
		moved = true
		if len(g.Node().children) != 1 {
			break
		}
	}
	return moved
}

// NextFork steps forward until a node with more than one child or a leaf.
func (g *Game) NextFork() bool {
	moved := false
	for g.Next() {
		moved = true
		if len(g.Node().children) != 1 {
			break
		}
	}
	return moved
}

func (g *Game) NextComment() bool {
	moved := false
	for g.Next() {
		moved = true
		if len(g.Node().Comments) > 0 {
			break
		}
	}
	return moved
}

func (g *Game) PreviousComment() bool {
	moved := false
	for g.Previous() {
		moved = true
		if len(g.Node().Comments) > 0 {
			break
		}
	}
	return moved
}

// State snapshots the navigation state.
func (g *Game) State() Path {
	return g.path.Clone()
}

func (g *Game) RestoreState(p Path) bool {
	return g.GotoPath(p)
}

// MoveNodes returns the nodes carrying an on-board move at plies from..to of
// the current path.
func (g *Game) MoveNodes(from, to int) []*Node {
	var line []*Node
	for id := g.node; id != NoNode; {
		n := g.tree.Node(id)
		if n == nil {
			break
		}
		line = append(line, n)
		id = n.parent
	}
	for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
		line[i], line[j] = line[j], line[i]
	}

	var nodes []*Node
	for d := from; d <= to && d < len(line); d++ {
		if d < 0 {
			continue
		}
		if m := line[d].Move; m != nil && !m.Pass {
			nodes = append(nodes, line[d])
		}
	}
	return nodes
}

func (g *Game) nextNode(i int, explicit bool) bool {
	n := g.Node()
	if n == nil || len(n.children) == 0 {
		return false
	}
	if !explicit {
		i = 0
		if g.cfg.RememberPath {
			i = n.LastVisited
		}
	}
	if i < 0 || i >= len(n.children) {
		return false
	}
	g.path.push(i)
	g.node = n.children[i]
	return true
}

// executeNode applies the current node's edits to a clone of the current
// position. The root replaces the blank position instead of stacking on it.
func (g *Game) executeNode(push bool) {
	n := g.Node()
	if p := g.tree.Node(n.parent); p != nil {
		p.LastVisited = g.tree.ChildIndex(g.node)
	}

	next := g.Position().Clone()
	next.edit = n.Move == nil

	if m := n.Move; m != nil {
		if m.Pass {
			next.SetTurn(m.Color.Opponent())
		} else {
			prevErr := g.lastErr
			if _, ok := g.ValidMove(m.X, m.Y, m.Color, next); !ok {
				g.log.Warnw("invalid move in game record",
					"x", m.X, "y", m.Y, "color", m.Color.String(), "reason", g.lastErr.String())
				next = g.Position().Clone()
				next.Stones.Set(m.X, m.Y, m.Color)
				next.CaptureAdjacent(m.X, m.Y)
				next.SetTurn(m.Color.Opponent())
			}
			g.lastErr = prevErr
		}
	}

	if n.Turn != game.None {
		next.SetTurn(n.Turn)
	}
	for _, s := range n.Setup {
		next.Stones.Set(s.X, s.Y, s.Color)
	}
	for _, mk := range n.Markup {
		next.Markup.Set(mk.X, mk.Y, mk.Annotation())
	}

	if push {
		g.history.Push(next)
	} else {
		g.history.replaceTop(next)
	}
}
