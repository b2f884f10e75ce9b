package rules

// Frame is a snapshot of the whole game state after a tick.
type Frame struct {
	Turn          int64     `json:"turn"`
	Snake         Snake     `json:"snake"`
	Direction     Direction `json:"direction"`
	HeadDirection Direction `json:"headDirection"`
	Food          Food      `json:"food"`
	Score         int       `json:"score"`
	Alive         bool      `json:"alive"`
	Death         *Death    `json:"death,omitempty"`
}

// NewFrame builds the opening frame of a game: a single segment snake on the
// start cell heading right, no score and freshly spawned food.
func NewFrame(spawner FoodSpawner) *Frame {
	return &Frame{
		Snake:         NewSnake(StartPoint()),
		Direction:     DirectionRight,
		HeadDirection: DirectionRight,
		Food:          spawner.Spawn(),
		Alive:         true,
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	c := *f
	c.Snake = f.Snake.Clone()
	if f.Death != nil {
		d := *f.Death
		c.Death = &d
	}
	return &c
}
