// Package testsuite holds the behaviour every store implementation has to
// share.
package testsuite

import (
	"context"
	"sync"
	"testing"

	"github.com/battlesnakeio/classic/rules"
	"github.com/battlesnakeio/classic/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(turn int64, alive bool) *rules.Frame {
	f := &rules.Frame{
		Turn:          turn,
		Snake:         rules.Snake{{X: 288 + 32*int(turn), Y: 320}},
		Direction:     rules.DirectionRight,
		HeadDirection: rules.DirectionRight,
		Food:          rules.Food{Position: rules.Point{X: 64, Y: 96}, Points: 3, Sprite: "cherry"},
		Score:         int(turn),
		Alive:         alive,
	}
	if !alive {
		f.Death = &rules.Death{Turn: turn, Cause: rules.DeathCauseWallCollision}
	}
	return f
}

func testStoreGames(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := store.NewGame()

	// Create and fetch a game.
	err := s.CreateGame(ctx, g)
	require.Nil(t, err)
	fetched, err := s.GetGame(ctx, g.ID)
	require.Nil(t, err)
	require.Equal(t, g.ID, fetched.ID)
	require.Equal(t, rules.GameStatusRunning, fetched.Status)
	require.Equal(t, rules.FieldWidth, fetched.Width)
	require.Equal(t, rules.FieldHeight, fetched.Height)
	require.Equal(t, rules.BoxSize, fetched.BoxSize)

	// Mutating the result does not leak into the store.
	fetched.Status = rules.GameStatusError
	again, err := s.GetGame(ctx, g.ID)
	require.Nil(t, err)
	require.Equal(t, rules.GameStatusRunning, again.Status)

	// NotFound error thrown.
	_, err = s.GetGame(ctx, g.ID+"-missing")
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func testStoreGameStatus(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := store.NewGame()

	err := s.CreateGame(ctx, g)
	require.Nil(t, err)

	err = s.SetGameStatus(ctx, g.ID, rules.GameStatusComplete)
	require.Nil(t, err)

	fetched, err := s.GetGame(ctx, g.ID)
	require.Nil(t, err)
	require.Equal(t, rules.GameStatusComplete, fetched.Status)

	err = s.SetGameStatus(ctx, g.ID+"-missing", rules.GameStatusComplete)
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func testStoreGameFrames(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := store.NewGame()

	err := s.CreateGame(ctx, g)
	require.Nil(t, err)

	// Read game frames, too high offset.
	frames, err := s.ListGameFrames(ctx, g.ID, 10, 100)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))

	// Read game frames, 0 offset.
	frames, err = s.ListGameFrames(ctx, g.ID, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 0, len(frames))

	// Push game frames.
	for turn := int64(0); turn < 5; turn++ {
		err = s.PushGameFrame(ctx, g.ID, frame(turn, turn < 4))
		require.Nil(t, err)
	}

	// Read the game frames.
	frames, err = s.ListGameFrames(ctx, g.ID, 2, 0)
	require.Nil(t, err)
	require.Equal(t, 2, len(frames))
	require.Equal(t, frame(0, true), frames[0])
	require.Equal(t, frame(1, true), frames[1])

	// Limit past the end.
	frames, err = s.ListGameFrames(ctx, g.ID, 10, 3)
	require.Nil(t, err)
	require.Equal(t, 2, len(frames))
	require.Equal(t, int64(3), frames[0].Turn)

	// Negative offset reads from the end.
	frames, err = s.ListGameFrames(ctx, g.ID, 1, -1)
	require.Nil(t, err)
	require.Equal(t, 1, len(frames))
	require.Equal(t, frame(4, false), frames[0])

	// No limit reads everything.
	frames, err = s.ListGameFrames(ctx, g.ID, 0, 0)
	require.Nil(t, err)
	require.Equal(t, 5, len(frames))

	// Read game frames that don't exist.
	frames, err = s.ListGameFrames(ctx, g.ID+"-missing", 1, 0)
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
	require.Equal(t, 0, len(frames))

	// Push to a game that doesn't exist.
	err = s.PushGameFrame(ctx, g.ID+"-missing", frame(0, true))
	require.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func testStoreConcurrentWriters(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := store.NewGame()

	err := s.CreateGame(ctx, g)
	require.Nil(t, err)

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func(turn int64) {
			defer wg.Done()
			assert.NoError(t, s.PushGameFrame(ctx, g.ID, frame(turn, true)))
		}(int64(i))
	}
	wg.Wait()

	frames, err := s.ListGameFrames(ctx, g.ID, 0, 0)
	require.Nil(t, err)
	require.Equal(t, 20, len(frames))
}

// Suite will execute the store testsuite.
func Suite(t *testing.T, s store.Store, pretest func()) {
	s = store.InstrumentStore(s)
	t.Run("Games", func(t *testing.T) { pretest(); testStoreGames(t, s) })
	t.Run("GameStatus", func(t *testing.T) { pretest(); testStoreGameStatus(t, s) })
	t.Run("GameFrames", func(t *testing.T) { pretest(); testStoreGameFrames(t, s) })
	t.Run("ConcurrentWriters", func(t *testing.T) { pretest(); testStoreConcurrentWriters(t, s) })
}
