package rules

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

// ErrNilFrame is returned when a tick is requested without a previous frame.
var ErrNilFrame = errors.New("rules: invalid state, previous frame is nil")

// GameTick runs the game one tick and returns the next frame. lastFrame is
// never modified. Ticking a frame whose snake is dead returns an identical
// copy.
//
// The steps run in a fixed order that recorded games depend on:
//  1. the new head is computed from the current head and direction, which
//     also becomes the head direction
//  2. the new head is checked against the current body, a hit ends the tick
//  3. food is eaten (grow) or the tail is dropped
//  4. the boundary is checked against the head position before the move
//  5. the new head is inserted
func GameTick(lastFrame *Frame, spawner FoodSpawner) (*Frame, error) {
	if lastFrame == nil {
		return nil, ErrNilFrame
	}
	next := lastFrame.Clone()
	if !next.Alive {
		return next, nil
	}
	next.Turn++

	oldHead := next.Snake.Head()
	newHead := oldHead.Step(next.Direction)
	next.HeadDirection = next.Direction

	// A self collision leaves the snake, food and score untouched.
	if SelfCollision(newHead, next.Snake) {
		return kill(next, DeathCauseSelfCollision), nil
	}

	if newHead.Equal(next.Food.Position) {
		log.WithFields(log.Fields{
			"Turn":   next.Turn,
			"Food":   next.Food.Sprite,
			"Points": next.Food.Points,
		}).Debug("snake ate")
		next.Score += next.Food.Points
		next.Food = spawner.Spawn()
	} else {
		next.Snake = next.Snake.DropTail()
	}

	if BoundaryExit(oldHead) {
		next = kill(next, DeathCauseWallCollision)
	}

	next.Snake = next.Snake.Push(newHead)
	return next, nil
}

func kill(f *Frame, cause string) *Frame {
	f.Alive = false
	f.Death = &Death{Turn: f.Turn, Cause: cause}
	log.WithFields(log.Fields{
		"Turn":  f.Turn,
		"Score": f.Score,
		"Cause": cause,
	}).Debug("snake died")
	return f
}
