package viewer

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nggo/internal/bootstrap"
	"nggo/internal/domain/game"
	"nggo/internal/domain/session"
	"nggo/internal/engine"
	"nggo/internal/httpresponse"
	repo "nggo/internal/repository"
	vieweruc "nggo/internal/usecase/viewer"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zap.NewNop().Sugar()
	cfg := engine.DefaultConfig()
	cfg.DefaultSize = 9
	uc := vieweruc.NewViewerUseCase(repo.NewSessionMapStorage(8, log), cfg, log)

	r := chi.NewRouter()
	NewViewerHandler(bootstrap.Config{}, log, uc).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		envelope := httpresponse.Response[json.RawMessage]{}
		if err := json.Unmarshal(data, &envelope); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		if envelope.Status != resp.StatusCode {
			t.Fatalf("envelope status %d, http status %d", envelope.Status, resp.StatusCode)
		}
		if err := json.Unmarshal(envelope.Body, out); err != nil {
			t.Fatalf("decode body %s: %v", envelope.Body, err)
		}
	}
	return resp.StatusCode
}

func createSession(t *testing.T, srv *httptest.Server, record string) string {
	t.Helper()
	var created session.CreateResponse
	if code := do(t, http.MethodPost, srv.URL+"/sessions", record, &created); code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	return created.SessionID
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t)
	id := createSession(t, srv, "")
	base := srv.URL + "/sessions/" + id

	var state session.State
	if code := do(t, http.MethodPost, base+"/play", `{"x": 2, "y": 3}`, &state); code != http.StatusOK {
		t.Fatalf("play status = %d", code)
	}
	if state.MoveNumber != 1 || state.Turn != game.White {
		t.Fatalf("state after play = %+v", state)
	}

	var rejected httpresponse.ErrorResponse
	if code := do(t, http.MethodPost, base+"/play", `{"x": 2, "y": 3}`, &rejected); code != http.StatusConflict {
		t.Fatalf("occupied play status = %d", code)
	}
	if rejected.ErrorDescription != "ALREADY_HAS_STONE" {
		t.Fatalf("rejection = %q", rejected.ErrorDescription)
	}

	do(t, http.MethodPost, base+"/pass", "", &state)
	if state.MoveNumber != 2 || state.Turn != game.Black {
		t.Fatalf("state after pass = %+v", state)
	}

	do(t, http.MethodPost, base+"/navigate", `{"op": "first"}`, &state)
	if state.MoveNumber != 0 || len(state.Delta.RemovedStones) != 1 {
		t.Fatalf("state after first = %+v", state)
	}

	do(t, http.MethodPost, base+"/setup", `{"x": 0, "y": 0, "color": "W"}`, &state)
	do(t, http.MethodPost, base+"/markup", `{"x": 0, "y": 0, "type": "triangle"}`, &state)
	if len(state.Stones) != 1 || len(state.Markup) != 1 {
		t.Fatalf("state after edits = %+v", state)
	}

	var rec game.Record
	if code := do(t, http.MethodGet, base+"/record", "", &rec); code != http.StatusOK {
		t.Fatalf("record status = %d", code)
	}
	if len(rec.Tree) != 3 || len(rec.Tree[0].Setup) != 1 || !rec.Tree[2].Move.Pass {
		t.Fatalf("record tree = %+v", rec.Tree)
	}

	if code := do(t, http.MethodDelete, base, "", nil); code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	if code := do(t, http.MethodGet, base, "", nil); code != http.StatusNotFound {
		t.Fatalf("state of a deleted session status = %d", code)
	}
}

func TestBadRequests(t *testing.T) {
	srv := newServer(t)
	id := createSession(t, srv, `{"info": {"board": {"width": 5}}, "tree": [{}]}`)
	base := srv.URL + "/sessions/" + id

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"malformed record", http.MethodPost, srv.URL + "/sessions", `{"tree": [`, http.StatusBadRequest},
		{"record without tree", http.MethodPost, srv.URL + "/sessions", `{"info": {}}`, http.StatusBadRequest},
		{"board too wide", http.MethodPost, srv.URL + "/sessions", `{"info": {"board": {"width": 3000}}, "tree": [{}]}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, base + "/play", `{"x": 1, "z": 2}`, http.StatusBadRequest},
		{"wrong action", http.MethodPost, base + "/play", `{"action": "pass"}`, http.StatusBadRequest},
		{"unknown op", http.MethodPost, base + "/navigate", `{"op": "up"}`, http.StatusBadRequest},
		{"off board", http.MethodPost, base + "/play", `{"x": 7, "y": 0}`, http.StatusConflict},
		{"missing session", http.MethodGet, srv.URL + "/sessions/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := do(t, tt.method, tt.url, tt.body, nil); code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func dialFeed(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) session.State {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var state session.State
	if err := conn.ReadJSON(&state); err != nil {
		t.Fatalf("read: %v", err)
	}
	return state
}

func TestFeed(t *testing.T) {
	srv := newServer(t)
	id := createSession(t, srv, "")

	player := dialFeed(t, srv, id)
	if s := readState(t, player); s.SessionID != id || s.MoveNumber != 0 {
		t.Fatalf("initial state = %+v", s)
	}
	watcher := dialFeed(t, srv, id)
	readState(t, watcher)

	if err := player.WriteJSON(session.Command{Action: session.ActionPlay, X: 4, Y: 4}); err != nil {
		t.Fatal(err)
	}
	reply := readState(t, player)
	if reply.MoveNumber != 1 || len(reply.Delta.AddedStones) != 1 {
		t.Fatalf("reply = %+v", reply)
	}
	pushed := readState(t, watcher)
	if pushed.MoveNumber != 1 {
		t.Fatalf("watcher got %+v", pushed)
	}

	// changes over HTTP reach the feed too
	var state session.State
	do(t, http.MethodPost, srv.URL+"/sessions/"+id+"/navigate", `{"op": "previous"}`, &state)
	if s := readState(t, player); s.MoveNumber != 0 {
		t.Fatalf("player got %+v after previous", s)
	}

	if err := player.WriteJSON(session.Command{Action: session.ActionPlay, X: 9, Y: 9}); err != nil {
		t.Fatal(err)
	}
	if s := readState(t, player); s.Error != "OUT_OF_BOUNDS" {
		t.Fatalf("rejected move reply = %+v", s)
	}
}

func TestFeedForMissingSession(t *testing.T) {
	srv := newServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/nope/feed"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial to a missing session must fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCreateSessionWithRecord(t *testing.T) {
	srv := newServer(t)
	body, _ := json.Marshal(game.Record{
		Tree: []game.RecordNode{
			{Setup: []game.Setup{{X: 1, Y: 1, Color: game.Black}}},
			{Move: &game.Move{X: 2, Y: 2, Color: game.White}},
		},
	})

	var created session.CreateResponse
	do(t, http.MethodPost, srv.URL+"/sessions", string(bytes.TrimSpace(body)), &created)
	if len(created.State.Stones) != 1 || created.State.Node.Children != 1 {
		t.Fatalf("created state = %+v", created.State)
	}
	if len(created.State.Node.Variations) != 1 {
		t.Fatal("root must list the move child as a variation")
	}
}

func TestBodyLimit(t *testing.T) {
	log := zap.NewNop().Sugar()
	uc := vieweruc.NewViewerUseCase(repo.NewSessionMapStorage(8, log), engine.DefaultConfig(), log)
	r := chi.NewRouter()
	NewViewerHandler(bootstrap.Config{MaxBodyBytes: 64}, log, uc).Routes(r)

	tests := []struct {
		name string
		url  string
		body string
		want int
	}{
		{"small record", "/sessions", `{"tree": [{}]}`, http.StatusCreated},
		{"large record", "/sessions", `{"tree": [{}]}` + strings.Repeat(" ", 128), http.StatusRequestEntityTooLarge},
		{"large command", "/sessions/any/play", `{"x": 1}` + strings.Repeat(" ", 128), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
