package engine

import (
	"encoding/json"

	"github.com/pkg/errors"

	"nggo/internal/domain/game"
	errs "nggo/internal/errors"
)

// Load replaces the game with the given record and enters the root. It
// reports whether a tree was loaded.
func (g *Game) Load(rec game.Record) bool {
	return g.LoadRecord(rec) == nil
}

// LoadRecord is Load with the reason a record was refused. A missing tree
// gives ErrGameNotLoaded, a malformed one ErrInvalidRecord; either way the
// game is left without a tree.
func (g *Game) LoadRecord(rec game.Record) error {
	g.tree = nil
	g.node = NoNode
	g.path = Path{}
	g.lastErr = ErrNone
	g.info = g.withDefaults(rec.Info)

	size := g.boardSize()
	if size < 0 || size > g.cfg.maxSize() {
		g.info = g.withDefaults(game.Info{})
		g.history.Reset(NewPosition(g.boardSize()))
		return errors.Wrapf(errs.ErrInvalidRecord, "board width %d, at most %d", size, g.cfg.maxSize())
	}
	g.history.Reset(NewPosition(size))

	if rec.Tree == nil {
		return errs.ErrGameNotLoaded
	}
	tree, err := buildTree(rec.Tree)
	if err != nil {
		g.log.Warnw("rejected game record", "error", err)
		return err
	}

	g.tree = tree
	g.First()
	return nil
}

// LoadJSON decodes a JSON record and loads it.
func (g *Game) LoadJSON(data []byte) error {
	var rec game.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(errs.ErrInvalidRecord, err.Error())
	}
	return g.LoadRecord(rec)
}

// ToRecord flattens the tree back into the record shape. Single children
// continue the sequence; forks end it with a variations entry.
func (g *Game) ToRecord() game.Record {
	rec := game.Record{Info: cloneInfo(g.info)}
	if g.tree == nil {
		return rec
	}
	rec.Tree = g.sequenceFrom(g.tree.Root())
	return rec
}

func (g *Game) sequenceFrom(id NodeID) []game.RecordNode {
	var seq []game.RecordNode
	for {
		n := g.tree.Node(id)
		seq = append(seq, recordFromNode(n))
		switch len(n.children) {
		case 0:
			return seq
		case 1:
			id = n.children[0]
		default:
			variations := make([][]game.RecordNode, 0, len(n.children))
			for _, c := range n.children {
				variations = append(variations, g.sequenceFrom(c))
			}
			return append(seq, game.RecordNode{Variations: variations})
		}
	}
}

func buildTree(seq []game.RecordNode) (*Tree, error) {
	if len(seq) == 0 {
		return NewTree(Node{}), nil
	}

	first := seq[0]
	if err := validateRecordNode(first); err != nil {
		return nil, err
	}
	if len(first.Variations) > 0 && len(seq) > 1 {
		return nil, errors.Wrap(errs.ErrInvalidRecord, "variations must end a sequence")
	}

	tree := NewTree(nodeFromRecord(first))
	for _, v := range first.Variations {
		if err := attachSequence(tree, tree.Root(), v); err != nil {
			return nil, err
		}
	}
	if err := attachSequence(tree, tree.Root(), seq[1:]); err != nil {
		return nil, err
	}
	return tree, nil
}

func attachSequence(tree *Tree, parent NodeID, seq []game.RecordNode) error {
	for i, rn := range seq {
		if err := validateRecordNode(rn); err != nil {
			return err
		}
		if len(rn.Variations) > 0 && i != len(seq)-1 {
			return errors.Wrap(errs.ErrInvalidRecord, "variations must end a sequence")
		}

		// a bare variations entry branches from the previous node
		if !(rn.IsEmpty() && len(rn.Variations) > 0) {
			parent, _ = tree.Append(parent, nodeFromRecord(rn))
		}
		for _, v := range rn.Variations {
			if err := attachSequence(tree, parent, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRecordNode(rn game.RecordNode) error {
	if rn.Move != nil {
		if rn.Move.Color == game.None {
			return errors.Wrap(errs.ErrInvalidRecord, "move without color")
		}
		if len(rn.Setup) > 0 {
			return errors.Wrap(errs.ErrInvalidRecord, "node mixes a move with setup")
		}
	}
	for _, m := range rn.Markup {
		if m.Type == "" {
			return errors.Wrapf(errs.ErrInvalidRecord, "markup at %d,%d without type", m.X, m.Y)
		}
	}
	return nil
}

func nodeFromRecord(rn game.RecordNode) Node {
	n := Node{
		Name:     rn.Name,
		Turn:     rn.Turn,
		Setup:    append([]game.Setup(nil), rn.Setup...),
		Markup:   append([]game.Markup(nil), rn.Markup...),
		Comments: append([]string(nil), rn.Comments...),
	}
	if rn.Move != nil {
		m := *rn.Move
		if m.Pass {
			m.X, m.Y = 0, 0
		}
		n.Move = &m
	}
	return n
}

func recordFromNode(n *Node) game.RecordNode {
	rn := game.RecordNode{
		Name:     n.Name,
		Turn:     n.Turn,
		Setup:    append([]game.Setup(nil), n.Setup...),
		Markup:   append([]game.Markup(nil), n.Markup...),
		Comments: append([]string(nil), n.Comments...),
	}
	if n.Move != nil {
		m := *n.Move
		rn.Move = &m
	}
	return rn
}
