package session

import (
	"sync"
	"time"

	"nggo/internal/board"
	"nggo/internal/domain/game"
	"nggo/internal/engine"
)

// Session is one open game in the viewer. The embedded mutex serializes every
// engine call on Game.
type Session struct {
	sync.Mutex
	ID        string
	CreatedAt time.Time
	Game      *engine.Game
}

const (
	ActionPlay     = "play"
	ActionPass     = "pass"
	ActionNavigate = "navigate"
	ActionSetup    = "setup"
	ActionMarkup   = "markup"
)

const (
	OpNext            = "next"
	OpPrevious        = "previous"
	OpFirst           = "first"
	OpLast            = "last"
	OpGoto            = "goto"
	OpPreviousFork    = "previous_fork"
	OpNextFork        = "next_fork"
	OpNextComment     = "next_comment"
	OpPreviousComment = "previous_comment"
)

// @name Command
// Command is what HTTP routes and feed messages are decoded into. Only the
// fields of its action are read.
type Command struct {
	Action string          `json:"action,omitempty"`
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Color  game.Color      `json:"color,omitempty"`
	Op     string          `json:"op,omitempty"`
	Index  *int            `json:"index,omitempty"`
	Move   *int            `json:"move,omitempty"`
	Path   []int           `json:"path,omitempty"`
	Type   game.MarkupType `json:"type,omitempty"`
	Text   string          `json:"text,omitempty"`
	Remove bool            `json:"remove,omitempty"`
}

type NodeInfo struct {
	Name       string      `json:"name,omitempty"`
	Comments   []string    `json:"comments,omitempty"`
	Move       *game.Move  `json:"move,omitempty"`
	Children   int         `json:"children"`
	Variations []game.Move `json:"variations,omitempty"`
}

// @name State
type State struct {
	SessionID  string                        `json:"session_id"`
	MoveNumber int                           `json:"move_number"`
	Turn       game.Color                    `json:"turn"`
	Path       []int                         `json:"path"`
	Stones     []board.Cell[game.Color]      `json:"stones"`
	Markup     []board.Cell[game.Annotation] `json:"markup"`
	Captures   engine.Captures               `json:"captures"`
	Komi       float64                       `json:"komi"`
	Delta      engine.Delta                  `json:"delta"`
	Node       NodeInfo                      `json:"node"`
	Error      string                        `json:"error,omitempty"`
}

type CreateResponse struct {
	SessionID string `json:"session_id"`
	State     State  `json:"state"`
}
