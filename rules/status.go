package rules

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	// GameStatusReady is an engine that has never been reset
	GameStatusReady GameStatus = "ready"
	// GameStatusRunning represents a running game
	GameStatusRunning GameStatus = "running"
	// GameStatusDead is an engine whose snake has died, only a reset leaves it
	GameStatusDead GameStatus = "dead"
	// GameStatusComplete represents a recorded game that is done
	GameStatusComplete GameStatus = "complete"
	// GameStatusError represents a game that ended because of an error
	GameStatusError GameStatus = "error"
)
