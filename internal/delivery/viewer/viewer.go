package viewer

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nggo/internal/bootstrap"
	"nggo/internal/domain/session"
	errs "nggo/internal/errors"
	"nggo/internal/httpresponse"
	vieweruc "nggo/internal/usecase/viewer"
	"nggo/internal/utils"
)

type ViewerHandler struct {
	cfg      bootstrap.Config
	log      *zap.SugaredLogger
	viewerUC *vieweruc.ViewerUseCase
}

// defaultMaxBody applies when the config leaves MAX_BODY_BYTES unset.
const defaultMaxBody = 1 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewViewerHandler(cfg bootstrap.Config, log *zap.SugaredLogger, viewerUC *vieweruc.ViewerUseCase) *ViewerHandler {
	return &ViewerHandler{
		cfg:      cfg,
		log:      log,
		viewerUC: viewerUC,
	}
}

func (h *ViewerHandler) Routes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Use(h.limitBody)
		r.Post("/", h.HandleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetState)
			r.Delete("/", h.HandleDeleteSession)
			r.Post("/play", h.commandHandler(session.ActionPlay))
			r.Post("/pass", h.commandHandler(session.ActionPass))
			r.Post("/navigate", h.commandHandler(session.ActionNavigate))
			r.Post("/setup", h.commandHandler(session.ActionSetup))
			r.Post("/markup", h.commandHandler(session.ActionMarkup))
			r.Get("/record", h.HandleGetRecord)
			r.Get("/feed", h.HandleFeed)
		})
	})
}

func (h *ViewerHandler) limitBody(next http.Handler) http.Handler {
	limit := h.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

func (h *ViewerHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadRequestBody(r)
	if err != nil {
		h.log.Error("Failed to read body:", err)
		h.writeBodyError(w, err, "Failed to read request body")
		return
	}

	state, err := h.viewerUC.CreateSession(r.Context(), body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Infow("session created", "session_id", state.SessionID, "moves", state.MoveNumber)
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, session.CreateResponse{
		SessionID: state.SessionID,
		State:     state,
	})
}

func (h *ViewerHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.viewerUC.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (h *ViewerHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.viewerUC.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (h *ViewerHandler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.viewerUC.Record(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

// commandHandler decodes the body into a command for action. The route
// decides the action, so a body naming another one is rejected.
func (h *ViewerHandler) commandHandler(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cmd session.Command
		if err := utils.DecodeJSONRequest(r, &cmd); err != nil {
			h.log.Error("JSON decode error:", err)
			h.writeBodyError(w, err, httpresponse.MALFORMEDJSON_errorDesc)
			return
		}
		if cmd.Action != "" && cmd.Action != action {
			httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "action does not match the route")
			return
		}
		cmd.Action = action

		state, err := h.viewerUC.Execute(r.Context(), chi.URLParam(r, "id"), cmd, 0)
		if err != nil {
			if state.Error != "" {
				httpresponse.WriteErrorResponse(w, http.StatusConflict, state.Error)
				return
			}
			h.writeError(w, err)
			return
		}
		httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
	}
}

// HandleFeed upgrades to a websocket. The client sends commands and gets the
// resulting state back; states produced by other clients of the session are
// pushed as they happen.
func (h *ViewerHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	sub, initial, updates, err := h.viewerUC.Subscribe(ctx, sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade error:", err)
		h.viewerUC.Unsubscribe(sessionID, sub)
		return
	}
	defer conn.Close()

	replies := make(chan session.State)
	done := make(chan struct{})
	go h.writeFeed(conn, updates, replies, done)
	defer func() {
		h.viewerUC.Unsubscribe(sessionID, sub)
		<-done
	}()

	select {
	case replies <- initial:
	case <-done:
		return
	}

	for {
		var cmd session.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Error("read error:", err)
			}
			return
		}

		state, err := h.viewerUC.Execute(ctx, sessionID, cmd, sub)
		if err != nil && state.Error == "" {
			state = session.State{SessionID: sessionID, Error: err.Error()}
		}

		select {
		case replies <- state:
		case <-done:
			return
		}
	}
}

// writeFeed is the only writer of conn.
func (h *ViewerHandler) writeFeed(conn *websocket.Conn, updates <-chan session.State, replies <-chan session.State, done chan<- struct{}) {
	defer close(done)
	for {
		var state session.State
		select {
		case s, ok := <-updates:
			if !ok {
				// the session was closed or the feed fell behind; either way
				// the client resyncs by reconnecting
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "feed closed")
				_ = conn.WriteMessage(websocket.CloseMessage, msg)
				return
			}
			state = s
		case state = <-replies:
		}
		if err := conn.WriteJSON(state); err != nil {
			h.log.Error("write error:", err)
			// unblocks the reader
			_ = conn.Close()
			return
		}
	}
}

func (h *ViewerHandler) writeBodyError(w http.ResponseWriter, err error, desc string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpresponse.WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "request body is too large")
		return
	}
	httpresponse.WriteErrorResponse(w, http.StatusBadRequest, desc)
}

func (h *ViewerHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrSessionNotFound):
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrTooManySessions):
		httpresponse.WriteErrorResponse(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, errs.ErrInvalidRecord),
		errors.Is(err, errs.ErrGameNotLoaded),
		errors.Is(err, errs.ErrInvalidCommand):
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
	}
}
