package game

import "time"

// Ship tuning, in world units per tick.
const (
	ShipSize          = 15.0
	ShipInnerRadius   = 8.0
	ShipOuterRadius   = 15.0
	ShipTurnRate      = 0.08 // radians/tick
	ShipThrust        = 0.06 // acceleration added per boosting tick
	ShipMaxAccel      = 0.3
	ShipThrustDecay   = 0.5 // acceleration multiplier per idle tick
	ShipMaxSpeed      = 7.0
	ShipDrag          = 0.99
	ShipTailSpeed     = 0.5
	ShipFireInterval  = 250 * time.Millisecond
	InvincibleTicks   = 180
	InvincibleBlink   = 10 // ticks per blink phase
	DefaultTickPeriod = time.Second / 60
)

// Projectile tuning.
const (
	ProjectileSpeed  = 10.0
	ProjectileLength = 6.0
	ProjectileRadius = 2.0
)

// Asteroid tuning.
const (
	LargeVertices     = 11
	LargeMinRadius    = 38.0
	LargeMaxRadius    = 50.0
	LargeMinSpeed     = 0.6
	LargeMaxSpeed     = 1.8
	SmallVertices     = 7
	SmallMinRadius    = 12.0
	SmallMaxRadius    = 18.0
	SmallMinSpeed     = 1.5
	SmallMaxSpeed     = 3.0
	AsteroidMaxSpin   = 0.04
	AsteroidOutMargin = 20.0
	SplitCount        = 3
	SplitSpread       = 10.0 // max distance of a fragment from the parent center
)

// Population defaults.
const (
	DefaultMinLargeAsteroids = 7
	DefaultAsteroidsPerShip  = 3
)

// offstage is where pooled projectiles are parked, far outside any play or
// collision area.
var offstage = Vec{X: -1e7, Y: -1e7}
