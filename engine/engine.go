// Package engine owns the state of a single snake game. It serialises input
// and ticks behind one lock and exposes read-only snapshots to renderers.
package engine

import (
	"sync"

	"github.com/battlesnakeio/classic/rules"
	log "github.com/sirupsen/logrus"
)

// Engine is the game state machine: Ready until the first Reset, Running
// while the snake is alive and Dead after a collision. Only Reset leaves
// Dead.
type Engine struct {
	mu      sync.Mutex
	spawner rules.FoodSpawner
	status  rules.GameStatus
	frame   *rules.Frame
	pending rules.Direction
}

// New creates an engine in the Ready state.
func New(spawner rules.FoodSpawner) *Engine {
	if spawner == nil {
		spawner = rules.NewRandomSpawner(0)
	}
	return &Engine{
		spawner: spawner,
		status:  rules.GameStatusReady,
	}
}

// Reset throws the current game away and starts a new one.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.frame = rules.NewFrame(e.spawner)
	e.pending = e.frame.Direction
	e.status = rules.GameStatusRunning
	log.WithFields(log.Fields{
		"Food":   e.frame.Food.Position,
		"Points": e.frame.Food.Points,
	}).Debug("game reset")
}

// SetDirection records the direction used by the next tick. Later calls
// overwrite earlier ones. Unknown directions are ignored.
func (e *Engine) SetDirection(d rules.Direction) {
	if !d.Valid() {
		return
	}
	e.mu.Lock()
	e.pending = d
	e.mu.Unlock()
}

// Tick advances a running game by one step and returns the resulting frame.
// The bool is false once the snake is dead. Ticking an engine that is not
// running changes nothing and returns the current frame with false.
func (e *Engine) Tick() (rules.Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != rules.GameStatusRunning {
		return e.snapshot(), false
	}

	e.frame.Direction = e.pending
	next, err := rules.GameTick(e.frame, e.spawner)
	if err != nil {
		log.WithError(err).Error("unable to tick game")
		return e.snapshot(), false
	}
	e.frame = next

	if !next.Alive {
		e.status = rules.GameStatusDead
		log.WithFields(log.Fields{
			"Turn":  next.Turn,
			"Score": next.Score,
			"Cause": next.Death.Cause,
		}).Info("game over")
	}
	return e.snapshot(), next.Alive
}

// State returns a copy of the current frame. The zero Frame is returned
// before the first Reset.
func (e *Engine) State() rules.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Status returns the state machine position.
func (e *Engine) Status() rules.GameStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Engine) snapshot() rules.Frame {
	if e.frame == nil {
		return rules.Frame{}
	}
	return *e.frame.Clone()
}
