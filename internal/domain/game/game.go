package game

// Record is the JSON game record handed over by loaders and produced by the
// serializer.
type Record struct {
	Info Info         `json:"info"`
	Tree []RecordNode `json:"tree,omitempty"`
}

type Info struct {
	Board BoardInfo      `json:"board"`
	Game  GameInfo       `json:"game"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Missing values stay nil until defaults are applied at load time.
type BoardInfo struct {
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

type GameInfo struct {
	Komi     *float64 `json:"komi,omitempty"`
	Handicap *int     `json:"handicap,omitempty"`
}

// RecordNode is one entry of a node sequence. Variations, when present, must
// be on the last entry of its sequence and list the child branches.
type RecordNode struct {
	Name       string         `json:"name,omitempty"`
	Move       *Move          `json:"move,omitempty"`
	Setup      []Setup        `json:"setup,omitempty"`
	Markup     []Markup       `json:"markup,omitempty"`
	Turn       Color          `json:"turn,omitempty"`
	Comments   []string       `json:"comments,omitempty"`
	Variations [][]RecordNode `json:"variations,omitempty"`
}

func (n RecordNode) IsEmpty() bool {
	return n.Name == "" && n.Move == nil && len(n.Setup) == 0 && len(n.Markup) == 0 &&
		n.Turn == None && len(n.Comments) == 0
}
