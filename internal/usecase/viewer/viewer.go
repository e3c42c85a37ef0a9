package viewer

import (
	"bytes"
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"nggo/internal/domain/game"
	"nggo/internal/domain/session"
	"nggo/internal/engine"
	errs "nggo/internal/errors"
)

type SessionStore interface {
	StoreSession(ctx context.Context, g *engine.Game) (*session.Session, error)
	GetSession(ctx context.Context, sessionID string) (*session.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// feedBuffer is how many states a slow feed may lag behind before it is
// closed.
const feedBuffer = 16

type ViewerUseCase struct {
	store SessionStore
	cfg   engine.Config
	log   *zap.SugaredLogger

	feedsMu sync.Mutex
	feeds   map[string]map[int]chan session.State
	nextSub int
}

func NewViewerUseCase(store SessionStore, cfg engine.Config, log *zap.SugaredLogger) *ViewerUseCase {
	return &ViewerUseCase{
		store: store,
		cfg:   cfg,
		log:   log,
		feeds: make(map[string]map[int]chan session.State),
	}
}

// CreateSession opens a session on a JSON record. An empty record opens a
// blank board of the default size.
func (v *ViewerUseCase) CreateSession(ctx context.Context, record []byte) (session.State, error) {
	g := engine.New(v.cfg, engine.WithLogger(v.log))

	var err error
	if len(bytes.TrimSpace(record)) == 0 {
		err = g.LoadRecord(game.Record{Tree: []game.RecordNode{{}}})
	} else {
		err = g.LoadJSON(record)
	}
	if err != nil {
		return session.State{}, err
	}

	sess, err := v.store.StoreSession(ctx, g)
	if err != nil {
		return session.State{}, err
	}
	return buildState(sess.ID, g, nil), nil
}

// State is the full state of a session; its delta lists every stone as added.
func (v *ViewerUseCase) State(ctx context.Context, sessionID string) (session.State, error) {
	sess, err := v.store.GetSession(ctx, sessionID)
	if err != nil {
		return session.State{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	return buildState(sess.ID, sess.Game, nil), nil
}

func (v *ViewerUseCase) Record(ctx context.Context, sessionID string) (game.Record, error) {
	sess, err := v.store.GetSession(ctx, sessionID)
	if err != nil {
		return game.Record{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Game.ToRecord(), nil
}

// CloseSession deletes the session and closes its feeds.
func (v *ViewerUseCase) CloseSession(ctx context.Context, sessionID string) error {
	if err := v.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	v.feedsMu.Lock()
	defer v.feedsMu.Unlock()
	for _, ch := range v.feeds[sessionID] {
		close(ch)
	}
	delete(v.feeds, sessionID)
	return nil
}

// Execute runs one command on a session. A rejected move still returns the
// unchanged state, with its Error set, next to an error wrapping the move
// sentinel. Every other feed of the session gets the state; origin is the
// subscription that sent the command, 0 for none.
func (v *ViewerUseCase) Execute(ctx context.Context, sessionID string, cmd session.Command, origin int) (session.State, error) {
	sess, err := v.store.GetSession(ctx, sessionID)
	if err != nil {
		return session.State{}, err
	}

	sess.Lock()
	defer sess.Unlock()

	g := sess.Game
	// edits change the current position in place
	before := g.Position().Clone()
	if err := apply(g, cmd); err != nil {
		if !isMoveRejection(err) {
			return session.State{}, err
		}
		state := buildState(sess.ID, g, before)
		state.Error = g.LastError().String()
		v.log.Debugw("move rejected", "session_id", sessionID, "reason", state.Error)
		return state, err
	}

	state := buildState(sess.ID, g, before)
	// feeds see states in the order the session produced them
	v.publish(sessionID, state, origin)
	return state, nil
}

// Subscribe opens a feed of the states produced on a session and returns the
// state the feed starts from. The channel is closed by Unsubscribe, when the
// session is closed, or when the feed falls more than feedBuffer states
// behind; a closed feed has to subscribe again to resync.
func (v *ViewerUseCase) Subscribe(ctx context.Context, sessionID string) (int, session.State, <-chan session.State, error) {
	sess, err := v.store.GetSession(ctx, sessionID)
	if err != nil {
		return 0, session.State{}, nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	v.feedsMu.Lock()
	defer v.feedsMu.Unlock()
	// CloseSession deletes before it takes feedsMu, so a feed registered
	// here is either seen by it or refused
	if _, err := v.store.GetSession(ctx, sessionID); err != nil {
		return 0, session.State{}, nil, err
	}

	v.nextSub++
	ch := make(chan session.State, feedBuffer)
	if v.feeds[sessionID] == nil {
		v.feeds[sessionID] = make(map[int]chan session.State)
	}
	v.feeds[sessionID][v.nextSub] = ch
	return v.nextSub, buildState(sess.ID, sess.Game, nil), ch, nil
}

func (v *ViewerUseCase) Unsubscribe(sessionID string, sub int) {
	v.feedsMu.Lock()
	defer v.feedsMu.Unlock()
	v.dropFeed(sessionID, sub)
}

func (v *ViewerUseCase) dropFeed(sessionID string, sub int) {
	subs := v.feeds[sessionID]
	if ch, ok := subs[sub]; ok {
		close(ch)
		delete(subs, sub)
	}
	if len(subs) == 0 {
		delete(v.feeds, sessionID)
	}
}

func (v *ViewerUseCase) publish(sessionID string, state session.State, origin int) {
	v.feedsMu.Lock()
	defer v.feedsMu.Unlock()
	for sub, ch := range v.feeds[sessionID] {
		if sub == origin {
			continue
		}
		select {
		case ch <- state:
		default:
			v.log.Warnw("feed fell behind, closing it", "session_id", sessionID, "subscription", sub)
			v.dropFeed(sessionID, sub)
		}
	}
}

func apply(g *engine.Game, cmd session.Command) error {
	switch cmd.Action {
	case session.ActionPlay:
		if !g.Play(cmd.X, cmd.Y, cmd.Color) {
			return rejection(g)
		}
	case session.ActionPass:
		if !g.Pass(cmd.Color) {
			return errs.ErrGameNotLoaded
		}
	case session.ActionNavigate:
		return navigate(g, cmd)
	case session.ActionSetup:
		if !g.IsOnBoard(cmd.X, cmd.Y) {
			return errors.Wrapf(errs.ErrInvalidCommand, "setup at %d,%d is off the board", cmd.X, cmd.Y)
		}
		if cmd.Color == game.None {
			g.RemoveStone(cmd.X, cmd.Y)
		} else {
			g.AddStone(cmd.X, cmd.Y, cmd.Color)
		}
	case session.ActionMarkup:
		if !g.IsOnBoard(cmd.X, cmd.Y) {
			return errors.Wrapf(errs.ErrInvalidCommand, "markup at %d,%d is off the board", cmd.X, cmd.Y)
		}
		if cmd.Remove {
			g.RemoveMarkup(cmd.X, cmd.Y)
			return nil
		}
		if cmd.Type == "" {
			return errors.Wrap(errs.ErrInvalidCommand, "markup without type")
		}
		g.AddMarkup(cmd.X, cmd.Y, game.Annotation{Type: cmd.Type, Text: cmd.Text})
	default:
		return errors.Wrapf(errs.ErrInvalidCommand, "unknown action %q", cmd.Action)
	}
	return nil
}

// navigate never fails on a move that is not possible; the cursor just stays.
func navigate(g *engine.Game, cmd session.Command) error {
	switch cmd.Op {
	case session.OpNext:
		if cmd.Index != nil {
			g.NextAt(*cmd.Index)
		} else {
			g.Next()
		}
	case session.OpPrevious:
		g.Previous()
	case session.OpFirst:
		g.First()
	case session.OpLast:
		g.Last()
	case session.OpGoto:
		switch {
		case cmd.Path != nil:
			g.GotoPath(engine.NewPath(cmd.Path...))
		case cmd.Move != nil:
			g.GotoMove(*cmd.Move)
		default:
			return errors.Wrap(errs.ErrInvalidCommand, "goto needs move or path")
		}
	case session.OpPreviousFork:
		g.PreviousFork()
	case session.OpNextFork:
		g.NextFork()
	case session.OpNextComment:
		g.NextComment()
	case session.OpPreviousComment:
		g.PreviousComment()
	default:
		return errors.Wrapf(errs.ErrInvalidCommand, "unknown navigation %q", cmd.Op)
	}
	return nil
}

func rejection(g *engine.Game) error {
	if err := g.LastError().Err(); err != nil {
		return errors.Wrap(err, g.LastError().String())
	}
	return errs.ErrGameNotLoaded
}

func isMoveRejection(err error) bool {
	return errors.Is(err, errs.ErrMoveOutOfBounds) ||
		errors.Is(err, errs.ErrMoveAlreadyHasStone) ||
		errors.Is(err, errs.ErrMoveIsSuicide) ||
		errors.Is(err, errs.ErrMoveIsRepeating)
}

func buildState(id string, g *engine.Game, before *engine.Position) session.State {
	pos := g.Position()
	path := g.Path().Choices()
	if path == nil {
		path = []int{}
	}

	state := session.State{
		SessionID:  id,
		MoveNumber: g.MoveNumber(),
		Turn:       g.Turn(),
		Path:       path,
		Stones:     pos.Stones.Cells(),
		Markup:     pos.Markup.Cells(),
		Captures:   g.CaptureCount(),
		Komi:       g.Komi(),
		Delta:      engine.Diff(before, pos),
	}
	if n := g.Node(); n != nil {
		state.Node = session.NodeInfo{
			Name:       n.Name,
			Comments:   append([]string(nil), n.Comments...),
			Children:   len(n.Children()),
			Variations: g.Tree().MoveVariations(g.NodeID()),
		}
		if n.Move != nil {
			m := *n.Move
			state.Node.Move = &m
		}
	}
	return state
}
