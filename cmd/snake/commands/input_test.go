package commands

import (
	"context"
	"testing"

	"github.com/battlesnakeio/classic/rules"
	termbox "github.com/nsf/termbox-go"
	"github.com/stretchr/testify/require"
)

func key(k termbox.Key) termbox.Event {
	return termbox.Event{Type: termbox.EventKey, Key: k}
}

func TestKeyboardArrows(t *testing.T) {
	tests := []struct {
		key  termbox.Key
		want rules.Direction
	}{
		{termbox.KeyArrowUp, rules.DirectionUp},
		{termbox.KeyArrowDown, rules.DirectionDown},
		{termbox.KeyArrowLeft, rules.DirectionLeft},
		{termbox.KeyArrowRight, rules.DirectionRight},
	}
	for _, tt := range tests {
		k := newKeyboard()
		k.handle(key(tt.key))
		require.Equal(t, tt.want, <-k.Directions())
	}
}

func TestKeyboardNewestDirectionWins(t *testing.T) {
	k := newKeyboard()
	k.handle(key(termbox.KeyArrowUp))
	k.handle(key(termbox.KeyArrowLeft))
	require.Equal(t, rules.DirectionLeft, <-k.Directions())
	require.Len(t, k.dirs, 0)
}

func TestKeyboardIgnoresOtherKeys(t *testing.T) {
	k := newKeyboard()
	k.handle(termbox.Event{Type: termbox.EventKey, Ch: 'w'})
	k.handle(key(termbox.KeyTab))
	k.handle(termbox.Event{Type: termbox.EventResize})
	require.Len(t, k.dirs, 0)
	require.Len(t, k.start, 0)
}

func TestKeyboardStartAndQuit(t *testing.T) {
	k := newKeyboard()
	k.handle(termbox.Event{Type: termbox.EventKey, Ch: 'r'})
	require.True(t, k.waitStart(context.Background()))

	k.handle(key(termbox.KeyArrowUp))
	k.handle(key(termbox.KeyEnter))
	k.drain()
	require.Len(t, k.dirs, 0)
	require.Len(t, k.start, 0)

	k.handle(key(termbox.KeyEsc))
	k.handle(key(termbox.KeyCtrlC))
	require.False(t, k.waitStart(context.Background()))
}
