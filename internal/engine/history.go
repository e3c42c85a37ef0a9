package engine

// History is the stack of positions along the current path, root first.
type History struct {
	positions []*Position
}

func NewHistory(initial *Position) *History {
	return &History{positions: []*Position{initial}}
}

func (h *History) Len() int {
	return len(h.positions)
}

func (h *History) Top() *Position {
	if len(h.positions) == 0 {
		return nil
	}
	return h.positions[len(h.positions)-1]
}

func (h *History) At(i int) *Position {
	if i < 0 || i >= len(h.positions) {
		return nil
	}
	return h.positions[i]
}

func (h *History) Push(p *Position) {
	h.positions = append(h.positions, p)
}

// Pop never removes the initial position.
func (h *History) Pop() *Position {
	if len(h.positions) <= 1 {
		return nil
	}
	top := h.positions[len(h.positions)-1]
	h.positions = h.positions[:len(h.positions)-1]
	return top
}

func (h *History) Reset(initial *Position) {
	h.positions = []*Position{initial}
}

// replaceTop swaps the current position without changing depth.
func (h *History) replaceTop(p *Position) {
	h.positions[len(h.positions)-1] = p
}

// IsRepeating checks a candidate that would be pushed next. Ko mode compares
// against the position before the last move, skipping positions of nodes
// without a move; all mode against every position before the current one.
func (h *History) IsRepeating(candidate *Position, mode RepeatMode) bool {
	last := len(h.positions) - 2
	stop := 0
	switch mode {
	case RepeatKo:
		for last >= 0 && h.positions[last+1].edit {
			last--
		}
		stop = last
	case RepeatAll:
	default:
		return false
	}
	for i := last; i >= stop && i >= 0; i-- {
		if candidate.IsSameAs(h.positions[i]) {
			return true
		}
	}
	return false
}

func (h *History) Clone() *History {
	clone := &History{positions: make([]*Position, len(h.positions))}
	for i, p := range h.positions {
		c := p.Clone()
		c.capturedBlack, c.capturedWhite = p.capturedBlack, p.capturedWhite
		c.edit = p.edit
		clone.positions[i] = c
	}
	return clone
}
