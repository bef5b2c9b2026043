package game

// EventSink receives kill notifications from the World. The world has already
// applied removal, splitting and recycling when a method is called. shooter
// is nil when the firing ship no longer exists.
type EventSink interface {
	ProjectileKilledShip(shot ProjectileState, shooter *ShipState, victim ShipState)
	ProjectileKilledAsteroid(shot ProjectileState, shooter *ShipState, asteroid AsteroidState, size SizeClass)
	AsteroidKilledShip(asteroid AsteroidState, victim ShipState)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) ProjectileKilledShip(ProjectileState, *ShipState, ShipState)                    {}
func (NopSink) ProjectileKilledAsteroid(ProjectileState, *ShipState, AsteroidState, SizeClass) {}
func (NopSink) AsteroidKilledShip(AsteroidState, ShipState)                                    {}
