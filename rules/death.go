package rules

// SelfCollision reports whether head lands on any segment of body.
func SelfCollision(head Point, body []Point) bool {
	for _, b := range body {
		if deathByBodyCollision(head, b) {
			return true
		}
	}
	return false
}

// BoundaryExit reports whether head lies outside the playable region. The
// lower edge is bounded by FieldWidth, not FieldHeight, to stay compatible
// with recorded games.
func BoundaryExit(head Point) bool {
	return head.X < BoxSize ||
		head.X > FieldWidth*BoxSize ||
		head.Y < OffsetY*BoxSize ||
		head.Y > FieldWidth*BoxSize
}

func deathByBodyCollision(head, body Point) bool {
	return head.Equal(body)
}
