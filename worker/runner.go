package worker

import (
	"context"

	"github.com/battlesnakeio/classic/engine"
	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Runner plays one game at a time on Engine. Store is optional, recording
// failures are logged and never stop the game.
type Runner struct {
	Engine   *engine.Engine
	Renderer Renderer
	Input    InputSource
	Store    store.Store
	Timer    Timer

	// Started, when set, is called with the id of the recorded game.
	Started func(id string)
}

// Run resets the engine and plays until the snake dies or ctx is done. The
// timer is armed once and stopped exactly once. The last frame is always
// returned.
func (r *Runner) Run(ctx context.Context) (rules.Frame, error) {
	timer := r.Timer
	if timer == nil {
		timer = NewTicker()
	}

	r.Engine.Reset()
	frame := r.Engine.State()
	gamesStarted.Inc()

	id := r.startRecording(ctx, &frame)
	if id != "" && r.Started != nil {
		r.Started(id)
	}
	logger := log.WithField("game", id)
	logger.Info("game started")

	if err := r.Renderer.DrawFrame(frame); err != nil {
		r.finishRecording(id, rules.GameStatusError)
		return frame, errors.Wrap(err, "unable to draw frame")
	}

	var input <-chan rules.Direction
	if r.Input != nil {
		input = r.Input.Directions()
	}

	ticks := timer.Start(rules.TickInterval)
	stopped := false
	stop := func() {
		if !stopped {
			timer.Stop()
			stopped = true
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			stop()
			r.finishRecording(id, rules.GameStatusError)
			return frame, ctx.Err()

		case d, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			r.Engine.SetDirection(d)

		case <-ticks:
			previous := frame.Score
			next, alive := r.Engine.Tick()
			frame = next
			ticksTotal.Inc()
			if frame.Score > previous {
				foodEaten.Inc()
			}
			r.recordFrame(ctx, id, &frame)

			if err := r.Renderer.DrawFrame(frame); err != nil {
				stop()
				r.finishRecording(id, rules.GameStatusError)
				return frame, errors.Wrap(err, "unable to draw frame")
			}

			if !alive {
				stop()
				deaths.WithLabelValues(frame.Death.Cause).Inc()
				finalScore.Observe(float64(frame.Score))
				logger.WithFields(log.Fields{
					"turn":  frame.Turn,
					"score": frame.Score,
					"cause": frame.Death.Cause,
				}).Info("game over")
				r.finishRecording(id, rules.GameStatusComplete)
				return frame, errors.Wrap(r.Renderer.ShowGameOver(frame.Score), "unable to show game over")
			}
		}
	}
}

func (r *Runner) startRecording(ctx context.Context, first *rules.Frame) string {
	if r.Store == nil {
		return ""
	}
	g := store.NewGame()
	if err := r.Store.CreateGame(ctx, g); err != nil {
		log.WithError(err).WithField("game", g.ID).Error("unable to record game")
		return ""
	}
	r.recordFrame(ctx, g.ID, first)
	return g.ID
}

func (r *Runner) recordFrame(ctx context.Context, id string, f *rules.Frame) {
	if r.Store == nil || id == "" {
		return
	}
	if err := r.Store.PushGameFrame(ctx, id, f); err != nil {
		log.WithError(err).
			WithField("game", id).
			WithField("turn", f.Turn).
			Error("unable to record frame")
	}
}

func (r *Runner) finishRecording(id string, status rules.GameStatus) {
	if r.Store == nil || id == "" {
		return
	}
	// the run context may already be cancelled here
	if err := r.Store.SetGameStatus(context.Background(), id, status); err != nil {
		log.WithError(err).
			WithField("game", id).
			WithField("status", status).
			Error("unable to set game status")
	}
}
