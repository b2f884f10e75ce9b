package rules

// Sprite names the image used to draw a body segment.
type Sprite string

// Body segment sprites.
const (
	SpriteNone          Sprite = ""
	SpriteVertical      Sprite = "vertical"
	SpriteHorizontal    Sprite = "horizontal"
	SpriteTurnLeftUp    Sprite = "turn-left-up"
	SpriteTurnLeftDown  Sprite = "turn-left-down"
	SpriteTurnRightUp   Sprite = "turn-right-up"
	SpriteTurnRightDown Sprite = "turn-right-down"
)

// BodySprite classifies an interior segment from its two neighbours. prev is
// the neighbour closer to the head.
func BodySprite(part, prev, next Point) Sprite {
	switch {
	case part.X == prev.X && part.X == next.X:
		return SpriteVertical
	case part.Y == prev.Y && part.Y == next.Y:
		return SpriteHorizontal
	case (prev.X < part.X && next.Y < part.Y) || (next.X < part.X && prev.Y < part.Y):
		return SpriteTurnLeftUp
	case (prev.X < part.X && next.Y > part.Y) || (next.X < part.X && prev.Y > part.Y):
		return SpriteTurnLeftDown
	case (prev.X > part.X && next.Y < part.Y) || (next.X > part.X && prev.Y < part.Y):
		return SpriteTurnRightUp
	case (prev.X > part.X && next.Y > part.Y) || (next.X > part.X && prev.Y > part.Y):
		return SpriteTurnRightDown
	}
	return SpriteNone
}

// TailDirection returns the direction the tail sprite points to, derived from
// the segment just before it. Overlapping segments yield an empty direction.
func TailDirection(tail, prev Point) Direction {
	switch {
	case tail.X > prev.X:
		return DirectionLeft
	case tail.X < prev.X:
		return DirectionRight
	case tail.Y > prev.Y:
		return DirectionUp
	case tail.Y < prev.Y:
		return DirectionDown
	}
	return ""
}

// PartKind tells head, body and tail segments apart.
type PartKind string

// Part kinds.
const (
	PartHead PartKind = "head"
	PartBody PartKind = "body"
	PartTail PartKind = "tail"
)

// Part is a snake segment along with the sprite it is drawn with. Heads and
// tails carry a direction, body segments a Sprite.
type Part struct {
	Kind      PartKind
	Position  Point
	Direction Direction
	Sprite    Sprite
}

// Parts derives the drawable parts of the snake in f. The result depends on
// the whole chain so it has to be computed again for every frame.
func Parts(f *Frame) []Part {
	body := f.Snake
	if len(body) == 0 {
		return nil
	}

	parts := make([]Part, 0, len(body))
	parts = append(parts, Part{
		Kind:      PartHead,
		Position:  body[0],
		Direction: f.HeadDirection,
	})
	for i := 1; i < len(body)-1; i++ {
		parts = append(parts, Part{
			Kind:     PartBody,
			Position: body[i],
			Sprite:   BodySprite(body[i], body[i-1], body[i+1]),
		})
	}
	if len(body) >= 2 {
		tail := body[len(body)-1]
		parts = append(parts, Part{
			Kind:      PartTail,
			Position:  tail,
			Direction: TailDirection(tail, body[len(body)-2]),
		})
	}
	return parts
}
