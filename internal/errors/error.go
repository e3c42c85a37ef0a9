package errors

import "errors"

var (
	ErrMoveOutOfBounds     = errors.New("move is out of bounds")
	ErrMoveAlreadyHasStone = errors.New("there is already a stone at that point")
	ErrMoveIsSuicide       = errors.New("move is suicide")
	ErrMoveIsRepeating     = errors.New("move repeats an earlier position")
	ErrInvalidRecord       = errors.New("invalid game record")
	ErrGameNotLoaded       = errors.New("game has no tree loaded")
	ErrSessionNotFound     = errors.New("session was not found")
	ErrTooManySessions     = errors.New("too many open sessions")
	ErrInvalidCommand      = errors.New("invalid command")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInternal            = errors.New("internal error")
)
