package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func createAPIServer(t *testing.T, frames int, status rules.GameStatus) (*Server, store.Store, *store.Game) {
	ctx := context.Background()
	s := store.InMemStore()
	g := store.NewGame()
	require.NoError(t, s.CreateGame(ctx, g))
	for i := 0; i < frames; i++ {
		require.NoError(t, s.PushGameFrame(ctx, g.ID, &rules.Frame{Turn: int64(i), Alive: true}))
	}
	require.NoError(t, s.SetGameStatus(ctx, g.ID, status))
	return New(":1234", s), s, g
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestStatus(t *testing.T) {
	s, _, g := createAPIServer(t, 3, rules.GameStatusComplete)

	rr := get(s, "/games/"+g.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := &StatusResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(resp))
	require.Equal(t, g.ID, resp.Game.ID)
	require.Equal(t, rules.GameStatusComplete, resp.Game.Status)
	require.NotNil(t, resp.LastFrame, spew.Sdump(resp))
	require.Equal(t, int64(2), resp.LastFrame.Turn)
}

func TestStatusNoFrames(t *testing.T) {
	s, _, g := createAPIServer(t, 0, rules.GameStatusRunning)

	rr := get(s, "/games/"+g.ID)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := &StatusResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(resp))
	require.Nil(t, resp.LastFrame)
}

func TestStatusNotFound(t *testing.T) {
	s, _, _ := createAPIServer(t, 0, rules.GameStatusRunning)

	rr := get(s, "/games/missing")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFrames(t *testing.T) {
	s, _, g := createAPIServer(t, 5, rules.GameStatusComplete)

	tests := []struct {
		query string
		turns []int64
	}{
		{"", []int64{0, 1, 2, 3, 4}},
		{"?limit=2", []int64{0, 1}},
		{"?offset=3", []int64{3, 4}},
		{"?offset=-2&limit=1", []int64{3}},
		{"?offset=10", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := get(s, "/games/"+g.ID+"/frames"+tt.query)
			require.Equal(t, http.StatusOK, rr.Code)

			resp := &FramesResponse{}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(resp))
			require.Equal(t, len(tt.turns), resp.Count)
			turns := []int64{}
			for _, f := range resp.Frames {
				turns = append(turns, f.Turn)
			}
			require.Equal(t, tt.turns, turns)
		})
	}
}

func TestFramesBadQuery(t *testing.T) {
	s, _, g := createAPIServer(t, 1, rules.GameStatusComplete)

	require.Equal(t, http.StatusBadRequest, get(s, "/games/"+g.ID+"/frames?limit=x").Code)
	require.Equal(t, http.StatusBadRequest, get(s, "/games/"+g.ID+"/frames?offset=x").Code)
	require.Equal(t, http.StatusNotFound, get(s, "/games/missing/frames").Code)
}

func TestCORS(t *testing.T) {
	s, _, g := createAPIServer(t, 1, rules.GameStatusComplete)

	req, _ := http.NewRequest("GET", "/games/"+g.ID, nil)
	req.Header.Set("Origin", "http://example.com")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func dial(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket/" + id
	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	return c
}

func readFrames(t *testing.T, c *websocket.Conn) []int64 {
	turns := []int64{}
	for {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, msg, err := c.ReadMessage()
		if err != nil {
			require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			return turns
		}
		f := &rules.Frame{}
		require.NoError(t, json.Unmarshal(msg, f))
		turns = append(turns, f.Turn)
	}
}

func TestSocketCompletedGame(t *testing.T) {
	s, _, g := createAPIServer(t, 150, rules.GameStatusComplete)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := dial(t, ts, g.ID)
	defer c.Close()

	turns := readFrames(t, c)
	require.Len(t, turns, 150)
	for i, turn := range turns {
		require.Equal(t, int64(i), turn)
	}
}

func TestSocketRunningGame(t *testing.T) {
	s, st, g := createAPIServer(t, 2, rules.GameStatusRunning)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := dial(t, ts, g.ID)
	defer c.Close()

	go func() {
		ctx := context.Background()
		for i := 2; i < 6; i++ {
			time.Sleep(10 * time.Millisecond)
			st.PushGameFrame(ctx, g.ID, &rules.Frame{Turn: int64(i)})
		}
		st.SetGameStatus(ctx, g.ID, rules.GameStatusComplete)
	}()

	require.Equal(t, []int64{0, 1, 2, 3, 4, 5}, readFrames(t, c))
}

func TestSocketNotFound(t *testing.T) {
	s, _, _ := createAPIServer(t, 0, rules.GameStatusRunning)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket/missing"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// watchedStore remembers the context of the last frame listing.
type watchedStore struct {
	store.Store

	mu  sync.Mutex
	ctx context.Context
}

func (w *watchedStore) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
	return w.Store.ListGameFrames(ctx, id, limit, offset)
}

func (w *watchedStore) lastContext() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}

func TestSocketStopsPollingWhenSpectatorLeaves(t *testing.T) {
	_, st, g := createAPIServer(t, 1, rules.GameStatusRunning)
	watched := &watchedStore{Store: st}
	ts := httptest.NewServer(New(":1234", watched).Handler())
	defer ts.Close()

	c := dial(t, ts, g.ID)
	_, _, err := c.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, c.Close())

	deadline := time.Now().Add(2 * time.Second)
	for watched.lastContext().Err() == nil {
		if time.Now().After(deadline) {
			t.Fatal("frames still polled after the spectator left")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
