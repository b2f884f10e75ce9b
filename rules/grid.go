package rules

import "time"

// Board geometry. Coordinates handed around the engine are in pixels, a cell
// being BoxSize pixels wide.
const (
	BoxSize     = 32
	FieldWidth  = 17
	FieldHeight = 15
	OffsetX     = 1
	OffsetY     = 3

	startCellX = 9
	startCellY = 10
)

// TickInterval is the fixed period between two game ticks.
const TickInterval = 90 * time.Millisecond

// StartPoint is the cell every new snake is created on.
func StartPoint() Point {
	return Point{X: startCellX * BoxSize, Y: startCellY * BoxSize}
}
