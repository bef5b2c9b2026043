package game

// WorldSize is the fixed playfield extent.
type WorldSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ShipState is the public view of a ship.
type ShipState struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Color          Color   `json:"color"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Size           float64 `json:"size"`
	Heading        float64 `json:"heading"`
	Vertices       []Vec   `json:"vertices"`
	ShowTail       bool    `json:"showTail"`
	AsteroidPoints int     `json:"asteroidPoints"`
	KillingPoints  int     `json:"killingPoints"`
}

// ProjectileState is the public view of an in-flight projectile.
type ProjectileState struct {
	ID       uint32  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Heading  float64 `json:"heading"`
	Vertices []Vec   `json:"vertices"`
	Color    Color   `json:"color"`
}

// AsteroidState is the public view of an asteroid.
type AsteroidState struct {
	ID       uint32  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Vertices []Vec   `json:"vertices"`
}

// Snapshot is rebuilt at the end of every tick and never mutated afterwards.
type Snapshot struct {
	Tick        uint64            `json:"tick"`
	World       WorldSize         `json:"world"`
	Ships       []ShipState       `json:"ships"`
	Projectiles []ProjectileState `json:"projectiles"`
	Asteroids   []AsteroidState   `json:"asteroids"`
}
