package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBodySprite(t *testing.T) {
	part := Point{X: 160, Y: 160}
	left := Point{X: 128, Y: 160}
	right := Point{X: 192, Y: 160}
	up := Point{X: 160, Y: 128}
	down := Point{X: 160, Y: 192}

	tests := []struct {
		Prev, Next Point
		Expected   Sprite
	}{
		{Prev: up, Next: down, Expected: SpriteVertical},
		{Prev: down, Next: up, Expected: SpriteVertical},
		{Prev: left, Next: right, Expected: SpriteHorizontal},
		{Prev: right, Next: left, Expected: SpriteHorizontal},
		{Prev: left, Next: up, Expected: SpriteTurnLeftUp},
		{Prev: up, Next: left, Expected: SpriteTurnLeftUp},
		{Prev: left, Next: down, Expected: SpriteTurnLeftDown},
		{Prev: down, Next: left, Expected: SpriteTurnLeftDown},
		{Prev: right, Next: up, Expected: SpriteTurnRightUp},
		{Prev: up, Next: right, Expected: SpriteTurnRightUp},
		{Prev: right, Next: down, Expected: SpriteTurnRightDown},
		{Prev: down, Next: right, Expected: SpriteTurnRightDown},
	}

	for _, test := range tests {
		require.Equal(t, test.Expected, BodySprite(part, test.Prev, test.Next), "prev %s next %s", test.Prev, test.Next)
	}
}

func TestTailDirection(t *testing.T) {
	tail := Point{X: 160, Y: 160}

	require.Equal(t, DirectionLeft, TailDirection(tail, Point{X: 128, Y: 160}))
	require.Equal(t, DirectionRight, TailDirection(tail, Point{X: 192, Y: 160}))
	require.Equal(t, DirectionUp, TailDirection(tail, Point{X: 160, Y: 128}))
	require.Equal(t, DirectionDown, TailDirection(tail, Point{X: 160, Y: 192}))
	require.Equal(t, Direction(""), TailDirection(tail, tail))
}

func TestParts(t *testing.T) {
	f := &Frame{
		HeadDirection: DirectionUp,
		Snake: Snake{
			{X: 160, Y: 128},
			{X: 160, Y: 160},
			{X: 128, Y: 160},
			{X: 96, Y: 160},
		},
	}

	parts := Parts(f)
	require.Len(t, parts, 4)
	require.Equal(t, Part{Kind: PartHead, Position: Point{X: 160, Y: 128}, Direction: DirectionUp}, parts[0])
	require.Equal(t, Part{Kind: PartBody, Position: Point{X: 160, Y: 160}, Sprite: SpriteTurnLeftUp}, parts[1])
	require.Equal(t, Part{Kind: PartBody, Position: Point{X: 128, Y: 160}, Sprite: SpriteHorizontal}, parts[2])
	require.Equal(t, Part{Kind: PartTail, Position: Point{X: 96, Y: 160}, Direction: DirectionRight}, parts[3])
}

func TestPartsSingleSegmentHasNoTail(t *testing.T) {
	parts := Parts(&Frame{HeadDirection: DirectionRight, Snake: Snake{{X: 288, Y: 320}}})
	require.Len(t, parts, 1)
	require.Equal(t, PartHead, parts[0].Kind)

	require.Nil(t, Parts(&Frame{}))
}
