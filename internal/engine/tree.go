package engine

import (
	"nggo/internal/domain/game"
)

// NodeID addresses a node inside a Tree. NoNode marks the root's parent.
type NodeID int

const NoNode NodeID = -1

// Node is one entry in the game tree. LastVisited is the index of the child
// most recently entered and is part of the node, so cloning a tree keeps it.
type Node struct {
	Name     string
	Move     *game.Move
	Setup    []game.Setup
	Markup   []game.Markup
	Turn     game.Color
	Comments []string

	LastVisited int

	parent   NodeID
	children []NodeID
}

func (n *Node) Parent() NodeID {
	return n.parent
}

func (n *Node) Children() []NodeID {
	return n.children
}

func (n *Node) IsMove() bool {
	return n.Move != nil
}

// Tree is an arena of nodes; node 0 is the root.
type Tree struct {
	nodes []*Node
}

func NewTree(root Node) *Tree {
	root.parent = NoNode
	root.children = nil
	return &Tree{nodes: []*Node{&root}}
}

func (t *Tree) Root() NodeID {
	return 0
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Append attaches n as the last child of parent and returns its id and the
// child index it got.
func (t *Tree) Append(parent NodeID, n Node) (NodeID, int) {
	p := t.Node(parent)
	if p == nil {
		return NoNode, -1
	}
	n.parent = parent
	n.children = nil
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, &n)
	p.children = append(p.children, id)
	return id, len(p.children) - 1
}

// ChildIndex returns the position of id among its parent's children.
func (t *Tree) ChildIndex(id NodeID) int {
	n := t.Node(id)
	if n == nil {
		return -1
	}
	p := t.Node(n.parent)
	if p == nil {
		return -1
	}
	for i, c := range p.children {
		if c == id {
			return i
		}
	}
	return -1
}

// IsMoveVariation returns the index of the first child that plays at (x, y),
// or -1.
func (t *Tree) IsMoveVariation(id NodeID, x, y int) int {
	n := t.Node(id)
	if n == nil {
		return -1
	}
	for i, c := range n.children {
		m := t.nodes[c].Move
		if m != nil && !m.Pass && m.X == x && m.Y == y {
			return i
		}
	}
	return -1
}

// MoveVariations lists the on-board moves of the children of id. Passes are
// left out.
func (t *Tree) MoveVariations(id NodeID) []game.Move {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var moves []game.Move
	for _, c := range n.children {
		m := t.nodes[c].Move
		if m != nil && !m.Pass {
			moves = append(moves, *m)
		}
	}
	return moves
}

func (t *Tree) HasMoveVariations(id NodeID) bool {
	return len(t.MoveVariations(id)) > 0
}

func (t *Tree) Clone() *Tree {
	clone := &Tree{nodes: make([]*Node, len(t.nodes))}
	for i, n := range t.nodes {
		c := *n
		if n.Move != nil {
			m := *n.Move
			c.Move = &m
		}
		c.Setup = append([]game.Setup(nil), n.Setup...)
		c.Markup = append([]game.Markup(nil), n.Markup...)
		c.Comments = append([]string(nil), n.Comments...)
		c.children = append([]NodeID(nil), n.children...)
		clone.nodes[i] = &c
	}
	return clone
}
