package rules

const (
	// DeathCauseSelfCollision is when the snake moves into its own body
	DeathCauseSelfCollision = "self-collision"
	// DeathCauseWallCollision is when a snake runs off the board
	DeathCauseWallCollision = "wall-collision"
)

// Death records why and when the snake died.
type Death struct {
	Turn  int64  `json:"turn"`
	Cause string `json:"cause"`
}
