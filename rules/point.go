package rules

import "fmt"

// Point is a grid aligned pixel position occupied by a snake segment or food.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Equal checks if 2 points are the same x,y coordinate
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Step returns the point one cell away in the given direction. Unknown
// directions return p unchanged.
func (p Point) Step(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx*BoxSize, Y: p.Y + dy*BoxSize}
}

// Cell converts the pixel position to cell units.
func (p Point) Cell() (int, int) {
	return p.X / BoxSize, p.Y / BoxSize
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
