package engine

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	errs "nggo/internal/errors"
)

// RepeatMode controls how far back repeated positions are looked for.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatKo
	RepeatAll
)

func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "OFF", "NONE":
		return RepeatOff, nil
	case "KO":
		return RepeatKo, nil
	case "ALL":
		return RepeatAll, nil
	}
	return RepeatOff, errors.Wrapf(errs.ErrInvalidConfig, "unknown repeat check %q", s)
}

func (m RepeatMode) String() string {
	switch m {
	case RepeatKo:
		return "KO"
	case RepeatAll:
		return "ALL"
	default:
		return ""
	}
}

// MaxBoardSize caps the board width a record may ask for when the config
// sets no limit of its own.
const MaxBoardSize = 25

type Config struct {
	DefaultSize     int
	MaxSize         int
	DefaultKomi     float64
	DefaultHandicap int
	RememberPath    bool
	CheckRepeat     RepeatMode
	AllowRewrite    bool
	AllowSuicide    bool
}

func DefaultConfig() Config {
	return Config{
		DefaultSize:  19,
		MaxSize:      MaxBoardSize,
		RememberPath: true,
		CheckRepeat:  RepeatKo,
	}
}

// ErrorCode is the reason the last move attempt was rejected.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrOutOfBounds
	ErrAlreadyHasStone
	ErrIsSuicide
	ErrIsRepeating
)

func (c ErrorCode) String() string {
	switch c {
	case ErrOutOfBounds:
		return "OUT_OF_BOUNDS"
	case ErrAlreadyHasStone:
		return "ALREADY_HAS_STONE"
	case ErrIsSuicide:
		return "IS_SUICIDE"
	case ErrIsRepeating:
		return "IS_REPEATING"
	default:
		return ""
	}
}

// Err maps the code to its sentinel, nil for ErrNone.
func (c ErrorCode) Err() error {
	switch c {
	case ErrOutOfBounds:
		return errs.ErrMoveOutOfBounds
	case ErrAlreadyHasStone:
		return errs.ErrMoveAlreadyHasStone
	case ErrIsSuicide:
		return errs.ErrMoveIsSuicide
	case ErrIsRepeating:
		return errs.ErrMoveIsRepeating
	default:
		return nil
	}
}

func (c Config) maxSize() int {
	if c.MaxSize <= 0 {
		return MaxBoardSize
	}
	return c.MaxSize
}

type Option func(*Game)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(g *Game) {
		if log != nil {
			g.log = log
		}
	}
}
