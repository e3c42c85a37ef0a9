// Package engine implements the Go rules engine behind the viewer: positions
// with capture resolution, a position history for repetition checks, and a
// navigable tree of moves, setup and markup with path memory.
//
// A Game is not safe for concurrent use. Clone it before exploring from two
// call sites.
package engine

import (
	"go.uber.org/zap"

	"nggo/internal/board"
	"nggo/internal/domain/game"
)

type Captures struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type Game struct {
	cfg Config
	log *zap.SugaredLogger

	info    game.Info
	tree    *Tree
	node    NodeID
	path    Path
	history *History
	lastErr ErrorCode
}

func New(cfg Config, opts ...Option) *Game {
	g := &Game{
		cfg:  cfg,
		log:  zap.NewNop().Sugar(),
		node: NoNode,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.info = g.withDefaults(game.Info{})
	g.history = NewHistory(NewPosition(g.boardSize()))
	return g
}

func (g *Game) Config() Config {
	return g.cfg
}

func (g *Game) HasTree() bool {
	return g.tree != nil
}

func (g *Game) Tree() *Tree {
	return g.tree
}

// Node returns the node under the cursor, nil before the root is entered.
func (g *Game) Node() *Node {
	if g.tree == nil {
		return nil
	}
	return g.tree.Node(g.node)
}

func (g *Game) NodeID() NodeID {
	return g.node
}

func (g *Game) Path() Path {
	return g.path.Clone()
}

func (g *Game) MoveNumber() int {
	return g.path.Depth()
}

func (g *Game) History() *History {
	return g.history
}

func (g *Game) Position() *Position {
	return g.history.Top()
}

// LastError is the reason of the most recent rejected move.
func (g *Game) LastError() ErrorCode {
	return g.lastErr
}

func (g *Game) Info() game.Info {
	return g.info
}

func (g *Game) Komi() float64 {
	if g.info.Game.Komi == nil {
		return 0
	}
	return *g.info.Game.Komi
}

func (g *Game) SetKomi(komi float64) {
	g.info.Game.Komi = &komi
}

func (g *Game) Handicap() int {
	if g.info.Game.Handicap == nil {
		return 0
	}
	return *g.info.Game.Handicap
}

func (g *Game) Turn() game.Color {
	if p := g.Position(); p != nil {
		return p.Turn()
	}
	return game.Black
}

func (g *Game) SetTurn(c game.Color) {
	if p := g.Position(); p != nil {
		p.SetTurn(c)
	}
}

// CaptureCount sums the captures of every position along the current path.
func (g *Game) CaptureCount() Captures {
	var c Captures
	for i := 0; i < g.history.Len(); i++ {
		p := g.history.At(i)
		c.Black += p.CaptureCount(game.Black)
		c.White += p.CaptureCount(game.White)
	}
	return c
}

func (g *Game) IsOnBoard(x, y int) bool {
	return g.Position().Stones.IsOnGrid(x, y)
}

// IsMoveVariation returns the child index of the current node playing at
// (x, y), or -1.
func (g *Game) IsMoveVariation(x, y int) int {
	if g.Node() == nil {
		return -1
	}
	return g.tree.IsMoveVariation(g.node, x, y)
}

func (g *Game) HasStone(x, y int) bool {
	return g.Position().Stones.Has(x, y)
}

func (g *Game) HasMarkup(x, y int) bool {
	return g.Position().Markup.Has(x, y)
}

// Clone deep copies tree, cursor, path and history.
func (g *Game) Clone() *Game {
	clone := &Game{
		cfg:     g.cfg,
		log:     g.log,
		info:    cloneInfo(g.info),
		node:    g.node,
		path:    g.path.Clone(),
		history: g.history.Clone(),
		lastErr: g.lastErr,
	}
	if g.tree != nil {
		clone.tree = g.tree.Clone()
	}
	return clone
}

// ValidMove checks a move without committing it. On success it returns the
// resulting position with the turn passed to the opponent. color None means
// the side to move. When override is given the move is applied to it instead
// of a clone of the current position.
func (g *Game) ValidMove(x, y int, color game.Color, override *Position) (*Position, bool) {
	current := g.Position()

	if !current.Stones.IsOnGrid(x, y) {
		g.lastErr = ErrOutOfBounds
		return nil, false
	}
	if !g.cfg.AllowRewrite && current.Stones.Has(x, y) {
		g.lastErr = ErrAlreadyHasStone
		return nil, false
	}

	if color == game.None {
		color = current.Turn()
	}
	next := override
	if next == nil {
		next = current.Clone()
	}

	next.Stones.Set(x, y, color)

	if !next.CaptureAdjacent(x, y) && !next.HasLiberties(x, y) {
		if !g.cfg.AllowSuicide {
			g.lastErr = ErrIsSuicide
			return nil, false
		}
		next.CaptureGroup(x, y)
	}

	if g.history.IsRepeating(next, g.cfg.CheckRepeat) {
		g.lastErr = ErrIsRepeating
		return nil, false
	}

	next.SetTurn(color.Opponent())
	return next, true
}

// Play validates and commits a move as a new child of the current node.
func (g *Game) Play(x, y int, color game.Color) bool {
	if g.Node() == nil {
		return false
	}
	if color == game.None {
		color = g.Turn()
	}
	next, ok := g.ValidMove(x, y, color, nil)
	if !ok {
		return false
	}
	g.appendAndEnter(Node{Move: &game.Move{X: x, Y: y, Color: color}}, next)
	return true
}

// Pass always succeeds once a tree is loaded.
func (g *Game) Pass(color game.Color) bool {
	if g.Node() == nil {
		return false
	}
	if color == game.None {
		color = g.Turn()
	}
	next := g.Position().Clone()
	next.SetTurn(color.Opponent())
	g.appendAndEnter(Node{Move: &game.Move{Pass: true, Color: color}}, next)
	return true
}

// AddStone sets a stone as a setup edit on the current node, bypassing the
// rules. It reports whether anything changed.
func (g *Game) AddStone(x, y int, color game.Color) bool {
	if g.Node() == nil || !g.IsOnBoard(x, y) {
		return false
	}
	if g.Position().Stones.Is(x, y, color) {
		return false
	}

	g.ensureEditNode()
	g.Position().Stones.Set(x, y, color)

	n := g.Node()
	edit := game.Setup{X: x, Y: y, Color: color}
	for i := range n.Setup {
		if n.Setup[i].X == x && n.Setup[i].Y == y {
			n.Setup[i] = edit
			return true
		}
	}
	n.Setup = append(n.Setup, edit)
	return true
}

// RemoveStone undoes a setup edit of the current node in place, or records an
// explicit clear when the stone came from elsewhere.
func (g *Game) RemoveStone(x, y int) bool {
	n := g.Node()
	if n == nil || !g.IsOnBoard(x, y) {
		return false
	}
	for i := range n.Setup {
		if n.Setup[i].X == x && n.Setup[i].Y == y {
			n.Setup = append(n.Setup[:i], n.Setup[i+1:]...)
			g.Position().Stones.Unset(x, y)
			return true
		}
	}
	return g.AddStone(x, y, game.None)
}

func (g *Game) AddMarkup(x, y int, a game.Annotation) bool {
	if g.Node() == nil || !g.IsOnBoard(x, y) || a.Type == "" {
		return false
	}

	g.ensureEditNode()
	g.Position().Markup.Set(x, y, a)

	n := g.Node()
	edit := game.Markup{X: x, Y: y, Type: a.Type, Text: a.Text}
	for i := range n.Markup {
		if n.Markup[i].X == x && n.Markup[i].Y == y {
			n.Markup[i] = edit
			return true
		}
	}
	n.Markup = append(n.Markup, edit)
	return true
}

// RemoveMarkup only removes markup added by the current node.
func (g *Game) RemoveMarkup(x, y int) bool {
	n := g.Node()
	if n == nil {
		return false
	}
	for i := range n.Markup {
		if n.Markup[i].X == x && n.Markup[i].Y == y {
			n.Markup = append(n.Markup[:i], n.Markup[i+1:]...)
			g.Position().Markup.Unset(x, y)
			return true
		}
	}
	return false
}

// ensureEditNode interposes an empty node when the cursor sits on a move, so
// edits never share a node with a move.
func (g *Game) ensureEditNode() {
	if !g.Node().IsMove() {
		return
	}
	next := g.Position().Clone()
	next.edit = true
	g.appendAndEnter(Node{}, next)
}

func (g *Game) appendAndEnter(n Node, next *Position) {
	id, idx := g.tree.Append(g.node, n)
	g.tree.Node(g.node).LastVisited = idx
	g.path.push(idx)
	g.history.Push(next)
	g.node = id
}

func (g *Game) boardSize() int {
	if g.info.Board.Width == nil {
		return g.cfg.DefaultSize
	}
	return *g.info.Board.Width
}

func (g *Game) withDefaults(info game.Info) game.Info {
	info = cloneInfo(info)
	if info.Board.Width == nil {
		w := g.cfg.DefaultSize
		info.Board.Width = &w
	}
	if info.Board.Height == nil {
		h := g.cfg.DefaultSize
		info.Board.Height = &h
	}
	if info.Game.Komi == nil {
		k := g.cfg.DefaultKomi
		info.Game.Komi = &k
	}
	if info.Game.Handicap == nil {
		h := g.cfg.DefaultHandicap
		info.Game.Handicap = &h
	}
	return info
}

func cloneInfo(info game.Info) game.Info {
	c := game.Info{}
	if info.Board.Width != nil {
		w := *info.Board.Width
		c.Board.Width = &w
	}
	if info.Board.Height != nil {
		h := *info.Board.Height
		c.Board.Height = &h
	}
	if info.Game.Komi != nil {
		k := *info.Game.Komi
		c.Game.Komi = &k
	}
	if info.Game.Handicap != nil {
		h := *info.Game.Handicap
		c.Game.Handicap = &h
	}
	if info.Extra != nil {
		c.Extra = make(map[string]any, len(info.Extra))
		for k, v := range info.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Occupied returns every stone of the current position.
func (g *Game) Occupied() []board.Cell[game.Color] {
	return g.Position().Stones.Cells()
}
