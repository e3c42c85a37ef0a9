package engine

// Path records the child index chosen at each depth below the root.
// choices[d-1] is the index taken to reach depth d; Depth() is the current ply.
type Path struct {
	choices []int
}

func NewPath(choices ...int) Path {
	return Path{choices: append([]int(nil), choices...)}
}

func (p Path) Depth() int {
	return len(p.choices)
}

// Choice returns the index taken to reach depth d (1-based).
func (p Path) Choice(d int) (int, bool) {
	if d < 1 || d > len(p.choices) {
		return 0, false
	}
	return p.choices[d-1], true
}

func (p Path) Choices() []int {
	return append([]int(nil), p.choices...)
}

func (p Path) Clone() Path {
	return NewPath(p.choices...)
}

func (p Path) Equal(other Path) bool {
	if len(p.choices) != len(other.choices) {
		return false
	}
	for i := range p.choices {
		if p.choices[i] != other.choices[i] {
			return false
		}
	}
	return true
}

func (p *Path) push(i int) {
	p.choices = append(p.choices, i)
}

func (p *Path) pop() {
	if len(p.choices) > 0 {
		p.choices = p.choices[:len(p.choices)-1]
	}
}
