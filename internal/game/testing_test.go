package game

import "testing"

type shotKill struct {
	shot    ProjectileState
	shooter *ShipState
	victim  ShipState
}

type asteroidKill struct {
	shot     ProjectileState
	shooter  *ShipState
	asteroid AsteroidState
	size     SizeClass
}

type crash struct {
	asteroid AsteroidState
	victim   ShipState
}

// recordingSink captures events for assertions.
type recordingSink struct {
	shipKills     []shotKill
	asteroidKills []asteroidKill
	crashes       []crash
}

func (r *recordingSink) ProjectileKilledShip(shot ProjectileState, shooter *ShipState, victim ShipState) {
	r.shipKills = append(r.shipKills, shotKill{shot, shooter, victim})
}

func (r *recordingSink) ProjectileKilledAsteroid(shot ProjectileState, shooter *ShipState, a AsteroidState, size SizeClass) {
	r.asteroidKills = append(r.asteroidKills, asteroidKill{shot, shooter, a, size})
}

func (r *recordingSink) AsteroidKilledShip(a AsteroidState, victim ShipState) {
	r.crashes = append(r.crashes, crash{a, victim})
}

func newTestWorld(t *testing.T) (*World, *recordingSink) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	sink := &recordingSink{}
	return NewWorld(cfg, sink), sink
}

// clearAsteroids empties the field; the next tick refills it from the edges.
func clearAsteroids(w *World) {
	for _, a := range w.asteroids {
		a.removed = true
	}
	w.asteroids = nil
	w.largeCount = 0
}

// placeAsteroid adds a motionless asteroid at pos.
func placeAsteroid(w *World, size SizeClass, pos Vec) *Asteroid {
	a := newAsteroid(w.rng, w.nextAsteroidID(), size, pos)
	a.Spin = 0
	a.Phase = Seeking
	w.asteroids = append(w.asteroids, a)
	if size == Large {
		w.largeCount++
	}
	return a
}

// placeShip logs a ship in and moves it to pos with invincibility spent.
func placeShip(t *testing.T, w *World, name string, pos Vec) *Ship {
	t.Helper()
	st := w.Login(name, Color{R: 10, G: 200, B: 10})
	s, ok := w.Ship(st.ID)
	if !ok {
		t.Fatalf("ship %s not found after login", name)
	}
	s.Pos = pos
	s.Heading = 0
	s.Invincible = 0
	return s
}

func center(w *World) Vec {
	return Vec{X: w.bounds.W / 2, Y: w.bounds.H / 2}
}
