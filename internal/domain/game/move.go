package game

import "github.com/pkg/errors"

type Color int8

const (
	None  Color = 0
	Black Color = 1
	White Color = -1
)

func (c Color) Opponent() Color {
	return -c
}

func (c Color) String() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	default:
		return "E"
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "B", "b", "black":
		*c = Black
	case "W", "w", "white":
		*c = White
	case "E", "e", "", "none", "empty":
		*c = None
	default:
		return errors.Errorf("unknown stone color %q", string(text))
	}
	return nil
}

// @name Move
type Move struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Color Color `json:"color"`
	Pass  bool  `json:"pass,omitempty"`
}

// @name Setup
// Color None clears the point.
type Setup struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Color Color `json:"color"`
}

type MarkupType string

const (
	MarkupTriangle MarkupType = "triangle"
	MarkupCircle   MarkupType = "circle"
	MarkupSquare   MarkupType = "square"
	MarkupMark     MarkupType = "mark"
	MarkupSelect   MarkupType = "select"
	MarkupLabel    MarkupType = "label"
	MarkupLast     MarkupType = "last"
	MarkupSad      MarkupType = "sad"
	MarkupHappy    MarkupType = "happy"
)

// Annotation is what a markup grid stores per point.
type Annotation struct {
	Type MarkupType `json:"type"`
	Text string     `json:"text,omitempty"`
}

// @name Markup
type Markup struct {
	X    int        `json:"x"`
	Y    int        `json:"y"`
	Type MarkupType `json:"type"`
	Text string     `json:"text,omitempty"`
}

func (m Markup) Annotation() Annotation {
	return Annotation{Type: m.Type, Text: m.Text}
}
