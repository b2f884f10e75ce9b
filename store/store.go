// Package store records games and their frames so they can be replayed or
// watched while they run.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/battlesnakeio/classic/rules"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var (
	// ErrNotFound is returned when a game is not found.
	ErrNotFound = errors.New("store: game not found")
	// ErrExists is returned when a game id is already taken.
	ErrExists = errors.New("store: game already exists")
)

// Game describes a recorded game. The board geometry is stored alongside so
// replays do not depend on the constants of the binary reading them.
type Game struct {
	ID      string           `json:"id"`
	Status  rules.GameStatus `json:"status"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	BoxSize int              `json:"boxSize"`
	Created time.Time        `json:"created"`
}

// NewGame returns a running game with a fresh id.
func NewGame() *Game {
	return &Game{
		ID:      uuid.NewV4().String(),
		Status:  rules.GameStatusRunning,
		Width:   rules.FieldWidth,
		Height:  rules.FieldHeight,
		BoxSize: rules.BoxSize,
		Created: time.Now().UTC(),
	}
}

// Store is the interface to the backend store.
type Store interface {
	// CreateGame inserts a new game without frames.
	CreateGame(context.Context, *Game) error
	// SetGameStatus updates the status of a game.
	SetGameStatus(c context.Context, id string, status rules.GameStatus) error
	// PushGameFrame appends a frame to the game.
	PushGameFrame(c context.Context, id string, f *rules.Frame) error
	// ListGameFrames lists frames by an offset and limit, it supports
	// negative offset.
	ListGameFrames(c context.Context, id string, limit, offset int) ([]*rules.Frame, error)
	// GetGame fetches the game.
	GetGame(context.Context, string) (*Game, error)
}

// Window converts a limit and offset over total items into slice bounds. A
// negative offset counts from the end, a limit <= 0 means everything after
// offset. ok is false when the window is empty.
func Window(total, limit, offset int) (start, end int, ok bool) {
	if offset < 0 {
		offset = total + offset
		if offset < 0 {
			offset = 0
		}
	}
	if total == 0 || offset >= total {
		return 0, 0, false
	}
	if limit <= 0 || offset+limit >= total {
		limit = total - offset
	}
	return offset, offset + limit, true
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games:  map[string]*Game{},
		frames: map[string][]*rules.Frame{},
	}
}

type inmem struct {
	games  map[string]*Game
	frames map[string][]*rules.Frame
	lock   sync.Mutex
}

func (in *inmem) CreateGame(ctx context.Context, g *Game) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[g.ID]; ok {
		return ErrExists
	}
	clone := *g
	in.games[g.ID] = &clone
	in.frames[g.ID] = []*rules.Frame{}
	return nil
}

func (in *inmem) SetGameStatus(ctx context.Context, id string, status rules.GameStatus) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = status
	return nil
}

func (in *inmem) PushGameFrame(ctx context.Context, id string, f *rules.Frame) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return ErrNotFound
	}
	in.frames[id] = append(in.frames[id], f.Clone())
	return nil
}

func (in *inmem) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]*rules.Frame, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	frames, ok := in.frames[id]
	if !ok {
		return nil, ErrNotFound
	}
	start, end, ok := Window(len(frames), limit, offset)
	if !ok {
		return nil, nil
	}
	out := make([]*rules.Frame, 0, end-start)
	for _, f := range frames[start:end] {
		out = append(out, f.Clone())
	}
	return out, nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if g, ok := in.games[id]; ok {
		clone := *g
		return &clone, nil
	}
	return nil, ErrNotFound
}
