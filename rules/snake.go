package rules

// Snake is the ordered list of body segments, head first.
type Snake []Point

// NewSnake creates a single segment snake at p.
func NewSnake(p Point) Snake {
	return Snake{p}
}

// Head returns the first point in the body
func (s Snake) Head() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[0]
}

// Tail returns the last point in the body
func (s Snake) Tail() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[len(s)-1]
}

// Push returns a new snake with p inserted in front of the current head.
func (s Snake) Push(p Point) Snake {
	body := make(Snake, 0, len(s)+1)
	body = append(body, p)
	return append(body, s...)
}

// DropTail returns the snake without its last segment. The backing array is
// shared with s.
func (s Snake) DropTail() Snake {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// Clone returns a copy that does not share memory with s.
func (s Snake) Clone() Snake {
	if s == nil {
		return nil
	}
	c := make(Snake, len(s))
	copy(c, s)
	return c
}
