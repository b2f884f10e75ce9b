package commands

import (
	"context"
	"sync"

	"github.com/battlesnakeio/classic/rules"
	termbox "github.com/nsf/termbox-go"
)

var arrows = map[termbox.Key]rules.Direction{
	termbox.KeyArrowUp:    rules.DirectionUp,
	termbox.KeyArrowDown:  rules.DirectionDown,
	termbox.KeyArrowLeft:  rules.DirectionLeft,
	termbox.KeyArrowRight: rules.DirectionRight,
}

// keyboard splits terminal key presses into steering, start and quit
// signals. It implements worker.InputSource. Keys nobody is waiting for are
// dropped.
type keyboard struct {
	dirs  chan rules.Direction
	start chan struct{}
	quit  chan struct{}
	once  sync.Once
}

func newKeyboard() *keyboard {
	return &keyboard{
		dirs:  make(chan rules.Direction, 1),
		start: make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
}

func (k *keyboard) Directions() <-chan rules.Direction {
	return k.dirs
}

// listen feeds events to the keyboard until the queue is closed.
func (k *keyboard) listen(events <-chan termbox.Event) {
	for ev := range events {
		k.handle(ev)
	}
}

func (k *keyboard) handle(ev termbox.Event) {
	if ev.Type != termbox.EventKey {
		return
	}
	if d, ok := arrows[ev.Key]; ok {
		// newest wins
		select {
		case <-k.dirs:
		default:
		}
		select {
		case k.dirs <- d:
		default:
		}
		return
	}

	switch {
	case ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC:
		k.once.Do(func() { close(k.quit) })
	case ev.Key == termbox.KeyEnter, ev.Key == termbox.KeySpace, ev.Ch == 'r', ev.Ch == 'R':
		select {
		case k.start <- struct{}{}:
		default:
		}
	}
}

// drain forgets steering and start keys pressed before a new game.
func (k *keyboard) drain() {
	for {
		select {
		case <-k.dirs:
		case <-k.start:
		default:
			return
		}
	}
}

// waitStart blocks until a start key is pressed. It returns false on quit.
func (k *keyboard) waitStart(ctx context.Context) bool {
	select {
	case <-k.start:
		return true
	case <-k.quit:
		return false
	case <-ctx.Done():
		return false
	}
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}
