package game

import (
	"math"
	"testing"
)

func countLarge(w *World) int {
	n := 0
	for _, a := range w.asteroids {
		if a.Size == Large {
			n++
		}
	}
	return n
}

func smallAsteroids(w *World) []*Asteroid {
	var out []*Asteroid
	for _, a := range w.asteroids {
		if a.Size == Small {
			out = append(out, a)
		}
	}
	return out
}

func TestNewWorldMeetsPopulationFloor(t *testing.T) {
	w, _ := newTestWorld(t)
	if w.LargeAsteroidCount() != DefaultMinLargeAsteroids {
		t.Errorf("expected %d large asteroids, got %d", DefaultMinLargeAsteroids, w.LargeAsteroidCount())
	}
	if len(w.Snapshot().Asteroids) != DefaultMinLargeAsteroids {
		t.Errorf("initial snapshot should list the asteroids")
	}
}

func TestPopulationFloorAfterEveryTick(t *testing.T) {
	w, _ := newTestWorld(t)
	for i := 0; i < 4; i++ {
		w.Login("pilot", Color{R: 200})
	}
	for tick := 0; tick < 600; tick++ {
		if tick%50 == 0 && w.ShipCount() > 0 {
			w.ApplyInput(w.ships[0].ID, Input{Fire: true, Left: true})
		}
		w.Tick()
		want := max(DefaultMinLargeAsteroids, DefaultAsteroidsPerShip*w.ShipCount())
		if w.LargeAsteroidCount() < want {
			t.Fatalf("tick %d: %d large asteroids, want >= %d", tick, w.LargeAsteroidCount(), want)
		}
		if countLarge(w) != w.LargeAsteroidCount() {
			t.Fatalf("tick %d: counter %d disagrees with %d large asteroids", tick, w.LargeAsteroidCount(), countLarge(w))
		}
		checkPoolInvariant(t, w.pool)
	}
}

func TestBreakLargeAsteroidSplitsIntoThree(t *testing.T) {
	w, _ := newTestWorld(t)
	clearAsteroids(w)
	a := placeAsteroid(w, Large, Vec{X: 100, Y: 100})
	before := w.LargeAsteroidCount()

	if !w.BreakAsteroid(a.ID) {
		t.Fatal("expected asteroid to be found")
	}
	if w.LargeAsteroidCount() != before-1 {
		t.Errorf("expected large count %d, got %d", before-1, w.LargeAsteroidCount())
	}
	frags := smallAsteroids(w)
	if len(frags) != SplitCount {
		t.Fatalf("expected %d fragments, got %d", SplitCount, len(frags))
	}
	for _, f := range frags {
		if f.Pos.Dist(a.Pos) > SplitSpread+1e-9 {
			t.Errorf("fragment %d too far from parent: %v", f.ID, f.Pos.Dist(a.Pos))
		}
		if f.Vel.Len() < SmallMinSpeed {
			t.Errorf("fragment %d should be moving, speed %v", f.ID, f.Vel.Len())
		}
	}
	if frags[0].Vel == frags[1].Vel || frags[1].Vel == frags[2].Vel {
		t.Error("fragments should diverge")
	}
	if w.BreakAsteroid(a.ID) {
		t.Error("breaking a removed asteroid should be a no-op")
	}
}

func TestBreakSmallAsteroidYieldsNothing(t *testing.T) {
	w, _ := newTestWorld(t)
	clearAsteroids(w)
	a := placeAsteroid(w, Small, Vec{X: 100, Y: 100})
	if !w.BreakAsteroid(a.ID) {
		t.Fatal("expected asteroid to be found")
	}
	if len(w.asteroids) != 0 {
		t.Errorf("expected no asteroids, got %d", len(w.asteroids))
	}
}

func TestSmallAsteroidDiscardedOffscreen(t *testing.T) {
	w, _ := newTestWorld(t)
	clearAsteroids(w)
	a := placeAsteroid(w, Small, Vec{X: -100, Y: 100})
	a.Vel = Vec{X: -1}
	w.Tick()
	if _, ok := w.Asteroid(a.ID); ok {
		t.Error("small asteroid outside the playfield should be discarded")
	}
}

func TestLargeAsteroidRetargetsTowardShip(t *testing.T) {
	w, _ := newTestWorld(t)
	clearAsteroids(w)
	s := placeShip(t, w, "target", center(w))
	s.Invincible = InvincibleTicks
	a := placeAsteroid(w, Large, Vec{X: -200, Y: center(w).Y})
	a.Vel = Vec{X: -1}

	w.Tick()
	if _, ok := w.Asteroid(a.ID); !ok {
		t.Fatal("large asteroid must retarget, not disappear")
	}
	if a.Phase != Seeking {
		t.Errorf("expected seeking after retarget, got %d", a.Phase)
	}
	if a.Vel.X <= 0 {
		t.Errorf("expected asteroid to head back toward the ship, vel %+v", a.Vel)
	}
}

// A second fire request inside the cooldown does not shoot.
func TestFireCooldownLimitsShots(t *testing.T) {
	w, _ := newTestWorld(t)
	s := placeShip(t, w, "gunner", center(w))

	w.ApplyInput(s.ID, Input{Fire: true})
	w.Tick()
	w.ApplyInput(s.ID, Input{Fire: true})
	w.Tick()
	if w.pool.nextID != 1 {
		t.Fatalf("expected exactly one shot, got %d", w.pool.nextID)
	}
	if w.pool.ActiveCount() != 1 {
		t.Errorf("expected one active projectile, got %d", w.pool.ActiveCount())
	}

	ticks := int(ShipFireInterval/w.cfg.TickPeriod) + 1
	for i := 0; i < ticks; i++ {
		w.Tick()
	}
	if w.pool.nextID != 2 {
		t.Errorf("expected a second shot after the cooldown, got %d", w.pool.nextID)
	}
}

func TestProjectileFiredFromNose(t *testing.T) {
	w, _ := newTestWorld(t)
	s := placeShip(t, w, "gunner", center(w))
	w.ApplyInput(s.ID, Input{Fire: true})
	w.Tick()
	p := w.pool.Active()[0]
	if p.OwnerID != s.ID {
		t.Errorf("expected owner %s, got %s", s.ID, p.OwnerID)
	}
	if p.Heading != s.Heading {
		t.Errorf("expected heading %v, got %v", s.Heading, p.Heading)
	}
	want := s.Nose().Add(Unit(s.Heading).Scale(ProjectileSpeed))
	if p.Pos.Dist(want) > 1e-9 {
		t.Errorf("expected projectile at %+v, got %+v", want, p.Pos)
	}
}

// A projectile destroys a large asteroid at (100,100).
func TestProjectileBreaksLargeAsteroid(t *testing.T) {
	w, sink := newTestWorld(t)
	clearAsteroids(w)
	shooter := placeShip(t, w, "gunner", center(w))
	a := placeAsteroid(w, Large, Vec{X: 100, Y: 100})
	w.pool.Fire(shooter.ID, Vec{X: 80, Y: 100}, 0, shooter.BaseColor)

	w.Tick()

	if _, ok := w.Asteroid(a.ID); ok {
		t.Fatal("asteroid should be destroyed")
	}
	frags := smallAsteroids(w)
	if len(frags) != SplitCount {
		t.Fatalf("expected %d small asteroids, got %d", SplitCount, len(frags))
	}
	for _, f := range frags {
		if f.Pos.Dist(Vec{X: 100, Y: 100}) > SplitSpread {
			t.Errorf("fragment spawned too far away: %+v", f.Pos)
		}
	}
	if shooter.AsteroidPoints != 1 {
		t.Errorf("expected 1 asteroid point, got %d", shooter.AsteroidPoints)
	}
	if w.pool.ActiveCount() != 0 {
		t.Errorf("projectile should be consumed, %d active", w.pool.ActiveCount())
	}
	if len(sink.asteroidKills) != 1 {
		t.Fatalf("expected 1 asteroid kill event, got %d", len(sink.asteroidKills))
	}
	ev := sink.asteroidKills[0]
	if ev.asteroid.ID != a.ID || ev.size != Large || ev.shooter == nil || ev.shooter.ID != shooter.ID {
		t.Errorf("unexpected event %+v", ev)
	}
}

// A kill via projectile scores a point and removes the victim.
func TestProjectileKillsShip(t *testing.T) {
	w, sink := newTestWorld(t)
	clearAsteroids(w)
	c := center(w)
	killer := placeShip(t, w, "killer", Vec{X: c.X - 500, Y: c.Y})
	victim := placeShip(t, w, "victim", c)
	w.ApplyInput(killer.ID, Input{Fire: true})
	w.Tick()
	w.ApplyInput(killer.ID, Input{})
	w.pool.Fire(killer.ID, Vec{X: c.X - 10, Y: c.Y}, 0, killer.BaseColor)
	activeBefore := w.pool.ActiveCount()

	w.Tick()

	if killer.KillingPoints != 1 {
		t.Errorf("expected 1 killing point, got %d", killer.KillingPoints)
	}
	if _, ok := w.Ship(victim.ID); ok {
		t.Error("victim should be removed")
	}
	for _, st := range w.Snapshot().Ships {
		if st.ID == victim.ID {
			t.Error("victim should be absent from the snapshot")
		}
	}
	if w.pool.ActiveCount() != activeBefore-1 {
		t.Errorf("expected the killing shot to be consumed: %d -> %d", activeBefore, w.pool.ActiveCount())
	}
	if len(sink.shipKills) != 1 {
		t.Fatalf("expected 1 ship kill event, got %d", len(sink.shipKills))
	}
	ev := sink.shipKills[0]
	if ev.victim.ID != victim.ID || ev.shooter == nil || ev.shooter.KillingPoints != 1 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestKillByDisconnectedShooterSkipsScoring(t *testing.T) {
	w, sink := newTestWorld(t)
	clearAsteroids(w)
	victim := placeShip(t, w, "victim", center(w))
	w.pool.Fire("gone", Vec{X: victim.Pos.X - 10, Y: victim.Pos.Y}, 0, Color{})

	w.Tick()

	if len(sink.shipKills) != 1 {
		t.Fatalf("expected 1 kill, got %d", len(sink.shipKills))
	}
	if sink.shipKills[0].shooter != nil {
		t.Error("shooter should be nil when the firer is gone")
	}
}

func TestAsteroidKillsShip(t *testing.T) {
	w, sink := newTestWorld(t)
	clearAsteroids(w)
	s := placeShip(t, w, "pilot", center(w))
	a := placeAsteroid(w, Large, center(w))

	w.Tick()

	if _, ok := w.Ship(s.ID); ok {
		t.Error("ship should be destroyed by the asteroid")
	}
	if len(sink.crashes) != 1 || sink.crashes[0].asteroid.ID != a.ID {
		t.Fatalf("expected crash event for asteroid %d, got %+v", a.ID, sink.crashes)
	}
	if _, ok := w.Asteroid(a.ID); !ok {
		t.Error("the asteroid survives a crash")
	}
}

func TestInvincibleShipSurvivesUntilCountdownEnds(t *testing.T) {
	w, sink := newTestWorld(t)
	clearAsteroids(w)
	s := placeShip(t, w, "pilot", center(w))
	s.Invincible = 5
	placeAsteroid(w, Large, center(w))

	for i := 0; i < 4; i++ {
		w.Tick()
		if _, ok := w.Ship(s.ID); !ok {
			t.Fatalf("ship died at tick %d while invincible", i)
		}
	}
	w.Tick()
	if _, ok := w.Ship(s.ID); ok {
		t.Error("ship should die on the first hit after invincibility ends")
	}
	if len(sink.crashes) != 1 {
		t.Errorf("expected exactly one crash, got %d", len(sink.crashes))
	}
}

// A projectile leaving the playfield goes back to the pool.
func TestOutOfBoundsProjectileReturnsToPool(t *testing.T) {
	w, _ := newTestWorld(t)
	clearAsteroids(w)
	p := w.pool.Fire("someone", Vec{X: w.bounds.W - 5, Y: w.bounds.H / 2}, 0, Color{})

	w.Tick()

	if w.pool.ActiveCount() != 0 {
		t.Errorf("expected no active projectiles, got %d", w.pool.ActiveCount())
	}
	if w.pool.PooledCount() != 1 {
		t.Errorf("expected 1 pooled projectile, got %d", w.pool.PooledCount())
	}
	if p.Pos != offstage || p.OwnerID != "" || p.Vel != (Vec{}) || p.NeedsRecycling() {
		t.Errorf("pooled projectile not reset: %+v", p)
	}
	if len(w.Snapshot().Projectiles) != 0 {
		t.Error("recycled projectile must not appear in the snapshot")
	}
}

func TestDisconnectRecyclesProjectiles(t *testing.T) {
	w, _ := newTestWorld(t)
	s := placeShip(t, w, "pilot", center(w))
	w.ApplyInput(s.ID, Input{Fire: true})
	w.Tick()
	if w.pool.ActiveCount() != 1 {
		t.Fatalf("expected a shot in flight, got %d", w.pool.ActiveCount())
	}

	if !w.Disconnect(s.ID) {
		t.Fatal("disconnect should find the ship")
	}
	if w.pool.ActiveCount() != 0 {
		t.Errorf("expected owner's projectiles recycled, %d active", w.pool.ActiveCount())
	}
	if w.Disconnect(s.ID) {
		t.Error("second disconnect should be a no-op")
	}
	if w.ApplyInput(s.ID, Input{Up: true}) {
		t.Error("input for a removed ship should be a no-op")
	}
}

func TestLoginStateShowsBlinkColor(t *testing.T) {
	w, _ := newTestWorld(t)
	base := Color{R: 0x10, G: 0xff, B: 0x20}
	st := w.Login("pilot", base)
	if st.Color != BlinkColor {
		t.Errorf("expected blink color at login, got %+v", st.Color)
	}
	s, ok := w.Ship(st.ID)
	if !ok || s.BaseColor != base {
		t.Fatalf("expected ship with base color %+v", base)
	}
}

func TestSnapshotIsIndependentOfWorld(t *testing.T) {
	w, _ := newTestWorld(t)
	st := w.Login("pilot", Color{R: 9})
	w.Tick()
	snap := w.Snapshot()
	if len(snap.Ships) != 1 || snap.Ships[0].ID != st.ID {
		t.Fatalf("expected the ship in the snapshot")
	}
	if snap.World.Width != w.bounds.W || snap.World.Height != w.bounds.H {
		t.Errorf("unexpected world size %+v", snap.World)
	}
	snap.Ships[0].Vertices[0].X = math.Inf(1)
	w.Tick()
	if math.IsInf(w.Snapshot().Ships[0].Vertices[0].X, 0) {
		t.Error("snapshot vertices must not alias entity outlines")
	}
	if snap.Tick == w.Snapshot().Tick {
		t.Error("each tick should produce a new snapshot")
	}
}
