package rules

import (
	"math/rand"
	"sync"
	"time"
)

// Food is the single item on the board the snake can eat.
type Food struct {
	Position Point  `json:"position"`
	Points   int    `json:"points"`
	Sprite   string `json:"sprite"`
}

// FoodKind is an entry of the food catalog.
type FoodKind struct {
	Sprite string
	Points int
}

// FoodCatalog lists every kind of food that can be spawned.
var FoodCatalog = []FoodKind{
	{Sprite: "apple", Points: 1},
	{Sprite: "banana", Points: 2},
	{Sprite: "cherry", Points: 3},
	{Sprite: "mango", Points: 4},
	{Sprite: "orange", Points: 5},
}

// FoodSpawner places a new food item on the board.
type FoodSpawner interface {
	Spawn() Food
}

// RandomSpawner picks a uniformly random catalog entry and an independent
// uniformly random cell in the playable region. Cells under the snake are
// not excluded.
type RandomSpawner struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSpawner returns a spawner seeded with seed. A zero seed uses the
// current time.
func NewRandomSpawner(seed int64) *RandomSpawner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSpawner{rnd: rand.New(rand.NewSource(seed))}
}

// Spawn implements FoodSpawner.
func (rs *RandomSpawner) Spawn() Food {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	kind := FoodCatalog[rs.rnd.Intn(len(FoodCatalog))]
	return Food{
		Position: Point{
			X: (rs.rnd.Intn(FieldWidth) + OffsetX) * BoxSize,
			Y: (rs.rnd.Intn(FieldHeight) + OffsetY) * BoxSize,
		},
		Points: kind.Points,
		Sprite: kind.Sprite,
	}
}

// SpawnerFunc adapts a plain function to FoodSpawner.
type SpawnerFunc func() Food

// Spawn implements FoodSpawner.
func (f SpawnerFunc) Spawn() Food { return f() }
