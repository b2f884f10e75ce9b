package rules

// Direction is one of the four movement directions.
type Direction string

// Movement directions.
const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection converts raw input into a Direction. The second return value
// is false for anything that is not one of the four directions.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(s)
	return d, d.Valid()
}

// Valid reports whether d is one of the four movement directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// Delta returns the unit cell offset of a move in direction d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	}
	return 0, 0
}
