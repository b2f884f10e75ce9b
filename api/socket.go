package api

import (
	"context"
	"net/http"

	"github.com/battlesnakeio/classic/config"
	"github.com/battlesnakeio/classic/rules"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const framesPerPoll = 100

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// framesSocket streams every frame of a game, one JSON text message per
// frame, and closes normally once the game has stopped running and nothing
// is left to send.
func (s *Server) framesSocket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, err := s.store.GetGame(r.Context(), id); err != nil {
		writeError(w, id, err)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("game", id).Error("unable to upgrade connection")
		return
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.WithError(err).WithField("game", id).Debug("closing websocket")
		}
	}()

	logger := log.WithField("game", id)
	limiter := rate.NewLimiter(config.PollRate, config.PollBurst)
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go discardIncoming(ws, cancel)
	offset := 0

	for {
		if err := limiter.Wait(ctx); err != nil {
			logger.WithError(err).Debug("spectator left")
			return
		}

		frames, err := s.store.ListGameFrames(ctx, id, framesPerPoll, offset)
		if err != nil {
			logger.WithError(err).Error("unable to list frames")
			return
		}
		for _, f := range frames {
			if err := ws.WriteJSON(f); err != nil {
				logger.WithError(err).Debug("unable to write frame")
				return
			}
		}
		offset += len(frames)
		if len(frames) > 0 {
			continue
		}

		game, err := s.store.GetGame(ctx, id)
		if err != nil {
			logger.WithError(err).Error("unable to get game")
			return
		}
		if game.Status != rules.GameStatusRunning {
			// frames pushed between the list and the status read
			rest, err := s.store.ListGameFrames(ctx, id, 0, offset)
			if err != nil {
				logger.WithError(err).Error("unable to list frames")
				return
			}
			for _, f := range rest {
				if err := ws.WriteJSON(f); err != nil {
					return
				}
			}
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := ws.WriteMessage(websocket.CloseMessage, msg); err != nil {
				logger.WithError(err).Debug("unable to close websocket")
			}
			return
		}
	}
}

// discardIncoming reads until the connection fails, which is how a
// hijacked connection reports the client going away, then calls gone.
func discardIncoming(ws *websocket.Conn, gone func()) {
	defer gone()
	for {
		if _, _, err := ws.NextReader(); err != nil {
			return
		}
	}
}
