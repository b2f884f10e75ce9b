// Package worker drives a game in real time. It arms a fixed interval timer,
// feeds input to the engine, ticks it and reports every frame to a renderer
// and, optionally, a store.
package worker

import (
	"time"

	"github.com/battlesnakeio/classic/rules"
)

// Renderer draws the game. Implementations live outside the engine, the
// terminal one is in cmd/snake.
type Renderer interface {
	DrawFrame(rules.Frame) error
	ShowGameOver(score int) error
	ShowStartScreen() error
	HideStartScreen() error
}

// InputSource delivers direction changes as they happen.
type InputSource interface {
	Directions() <-chan rules.Direction
}

// Timer fires at a fixed period until stopped.
type Timer interface {
	Start(period time.Duration) <-chan time.Time
	Stop()
}

// NewTicker returns a Timer backed by time.Ticker. A slow consumer drops
// ticks rather than queueing them, so two ticks never overlap.
func NewTicker() Timer {
	return &ticker{}
}

type ticker struct {
	t *time.Ticker
}

func (t *ticker) Start(period time.Duration) <-chan time.Time {
	t.t = time.NewTicker(period)
	return t.t.C
}

func (t *ticker) Stop() {
	if t.t != nil {
		t.t.Stop()
	}
}
