// Package api serves recorded games to spectators over HTTP and websockets.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// StatusResponse is returned by GET /games/:id.
type StatusResponse struct {
	Game      *store.Game
	LastFrame *rules.Frame
}

// FramesResponse is returned by GET /games/:id/frames.
type FramesResponse struct {
	Count  int
	Frames []*rules.Frame
}

// Server is the spectator API.
type Server struct {
	hs    *http.Server
	store store.Store
}

// New creates a server listening on addr once WaitForExit is called.
func New(addr string, s store.Store) *Server {
	srv := &Server{store: s}

	router := httprouter.New()
	router.GET("/games/:id", srv.getStatus)
	router.GET("/games/:id/frames", srv.getFrames)
	router.GET("/socket/:id", srv.framesSocket)

	srv.hs = &http.Server{
		Addr:    addr,
		Handler: cors.Default().Handler(router),
	}
	return srv
}

// Handler exposes the routes, mostly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.hs.Handler
}

// WaitForExit serves until the server is shut down.
func (s *Server) WaitForExit() {
	log.WithField("addr", s.hs.Addr).Info("spectator api listening")
	err := s.hs.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("error while listening")
	}
}

// Shutdown stops accepting connections and waits for handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	game, err := s.store.GetGame(r.Context(), id)
	if err != nil {
		writeError(w, id, err)
		return
	}
	frames, err := s.store.ListGameFrames(r.Context(), id, 1, -1)
	if err != nil {
		writeError(w, id, err)
		return
	}

	resp := &StatusResponse{Game: game}
	if len(frames) > 0 {
		resp.LastFrame = frames[0]
	}
	writeJSON(w, resp)
}

func (s *Server) getFrames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	offset, err := queryInt(r, "offset")
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	frames, err := s.store.ListGameFrames(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, id, err)
		return
	}
	if frames == nil {
		frames = []*rules.Frame{}
	}
	writeJSON(w, &FramesResponse{Count: len(frames), Frames: frames})
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("unable to write response")
	}
}

func writeError(w http.ResponseWriter, id string, err error) {
	if errors.Cause(err) == store.ErrNotFound {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.WithError(err).WithField("game", id).Error("store error")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
