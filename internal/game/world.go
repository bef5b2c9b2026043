package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Config fixes the world dimensions and population rules.
type Config struct {
	Width             float64
	Height            float64
	TickPeriod        time.Duration
	MinLargeAsteroids int
	AsteroidsPerShip  int
	Seed              uint64
}

// DefaultConfig returns the stock arena settings.
func DefaultConfig() Config {
	return Config{
		Width:             3000,
		Height:            2000,
		TickPeriod:        DefaultTickPeriod,
		MinLargeAsteroids: DefaultMinLargeAsteroids,
		AsteroidsPerShip:  DefaultAsteroidsPerShip,
	}
}

// World owns every ship, asteroid and projectile and advances them one tick
// at a time. It is not safe for concurrent use; a single goroutine must own it.
type World struct {
	cfg    Config
	bounds Bounds
	sink   EventSink
	rng    *rand.Rand
	newID  func() string

	frame      uint64
	clock      time.Duration
	ships      []*Ship
	asteroids  []*Asteroid
	pool       *ProjectilePool
	largeCount int
	lastID     uint32

	grid     *SpatialGrid
	buf      []Ref
	snapshot Snapshot
}

// NewWorld builds a world seeded with its initial asteroid population. A nil
// sink discards events.
func NewWorld(cfg Config, sink EventSink) *World {
	if sink == nil {
		sink = NopSink{}
	}
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = DefaultTickPeriod
	}
	w := &World{
		cfg:    cfg,
		bounds: Bounds{W: cfg.Width, H: cfg.Height},
		sink:   sink,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		newID:  uuid.NewString,
		pool:   NewProjectilePool(),
		grid:   NewSpatialGrid(cfg.Width, cfg.Height),
	}
	w.topUp()
	w.rebuildSnapshot()
	return w
}

// Login creates a ship for a new session and returns its public state.
func (w *World) Login(name string, color Color) ShipState {
	pos := Vec{X: w.rng.Float64() * w.bounds.W, Y: w.rng.Float64() * w.bounds.H}
	s := NewShip(w.newID(), name, color, pos, w.rng.Float64()*2*math.Pi)
	w.ships = append(w.ships, s)
	return s.State()
}

// Disconnect removes the ship and its projectiles. It reports whether the
// ship existed.
func (w *World) Disconnect(id string) bool {
	s, ok := w.Ship(id)
	if !ok {
		return false
	}
	w.killShip(s)
	return true
}

// ApplyInput updates a ship's controls.
func (w *World) ApplyInput(id string, in Input) bool {
	s, ok := w.Ship(id)
	if !ok {
		return false
	}
	s.ApplyInput(in)
	return true
}

// Ship looks up a living ship.
func (w *World) Ship(id string) (*Ship, bool) {
	for _, s := range w.ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

func (w *World) ShipCount() int               { return len(w.ships) }
func (w *World) LargeAsteroidCount() int      { return w.largeCount }
func (w *World) Projectiles() *ProjectilePool { return w.pool }
func (w *World) Bounds() Bounds               { return w.bounds }

// Asteroid looks up an asteroid still in the world.
func (w *World) Asteroid(id uint32) (*Asteroid, bool) {
	if i := w.asteroidIndex(id); i >= 0 {
		return w.asteroids[i], true
	}
	return nil, false
}

// Snapshot returns the state built at the end of the last tick.
func (w *World) Snapshot() Snapshot {
	return w.snapshot
}

// RequiredLargeAsteroids is the population floor for the current ship count.
func (w *World) RequiredLargeAsteroids() int {
	return max(w.cfg.MinLargeAsteroids, len(w.ships)*w.cfg.AsteroidsPerShip)
}

// Tick advances the simulation by one step.
func (w *World) Tick() {
	w.frame++
	w.clock += w.cfg.TickPeriod

	for _, s := range w.ships {
		s.Advance(w.bounds)
		if s.readyToFire(w.clock) {
			w.pool.Fire(s.ID, s.Nose(), s.Heading, s.BaseColor)
			s.markFired(w.clock)
		}
	}

	w.pool.Tick(w.bounds)

	for i := len(w.asteroids) - 1; i >= 0; i-- {
		a := w.asteroids[i]
		a.advance(w.bounds)
		if !a.NeedsNewTarget() {
			continue
		}
		if a.Size == Large {
			w.retarget(a)
		} else {
			w.removeAsteroidAt(i)
		}
	}

	w.collide()
	w.topUp()
	w.rebuildSnapshot()
}

// collide runs asteroid-vs-projectile first, then ship-vs-asteroid and
// ship-vs-projectile.
func (w *World) collide() {
	w.grid.Clear()
	w.pool.Each(func(p *Projectile) { w.grid.Insert(ProjectileRef(p)) })
	for i := len(w.asteroids) - 1; i >= 0; i-- {
		src := AsteroidRef(w.asteroids[i])
		w.buf = w.grid.QueryBuf(src.Position(), src.Annulus().Outer, w.buf[:0])
		for _, dst := range w.buf {
			if w.tryCollide(src, dst) {
				break
			}
		}
	}

	w.grid.Clear()
	w.pool.Each(func(p *Projectile) { w.grid.Insert(ProjectileRef(p)) })
	for _, a := range w.asteroids {
		w.grid.Insert(AsteroidRef(a))
	}
	for i := len(w.ships) - 1; i >= 0; i-- {
		s := w.ships[i]
		if s.IsInvincible() {
			continue
		}
		src := ShipRef(s)
		w.buf = w.grid.QueryBuf(s.Pos, ShipOuterRadius, w.buf[:0])
		if !w.collideKind(src, KindAsteroid) {
			w.collideKind(src, KindProjectile)
		}
	}
}

func (w *World) collideKind(src Ref, kind Kind) bool {
	for _, dst := range w.buf {
		if dst.Kind == kind && w.tryCollide(src, dst) {
			return true
		}
	}
	return false
}

func (w *World) asteroidShot(a *Asteroid, p *Projectile) {
	shot := p.State()
	ownerID := p.OwnerID
	state, size := a.State(), a.Size

	p.recycle = true
	w.pool.RecycleByID(p.ID)
	w.BreakAsteroid(a.ID)

	var shooter *ShipState
	if s, ok := w.Ship(ownerID); ok {
		s.AsteroidPoints++
		st := s.State()
		shooter = &st
	}
	w.sink.ProjectileKilledAsteroid(shot, shooter, state, size)
}

func (w *World) shipShot(s *Ship, p *Projectile) {
	shot := p.State()
	ownerID := p.OwnerID

	p.recycle = true
	w.pool.RecycleByID(p.ID)
	victim := s.State()
	w.killShip(s)

	var shooter *ShipState
	if k, ok := w.Ship(ownerID); ok {
		k.KillingPoints++
		st := k.State()
		shooter = &st
	}
	w.sink.ProjectileKilledShip(shot, shooter, victim)
}

func (w *World) shipCrashed(s *Ship, a *Asteroid) {
	victim := s.State()
	w.killShip(s)
	w.sink.AsteroidKilledShip(a.State(), victim)
}

// killShip removes s and recycles everything it fired.
func (w *World) killShip(s *Ship) {
	for i, o := range w.ships {
		if o == s {
			w.ships = append(w.ships[:i], w.ships[i+1:]...)
			break
		}
	}
	w.pool.RecycleAllByOwner(s.ID)
}

// BreakAsteroid removes the asteroid. A large one splits into SplitCount
// small asteroids near its last position.
func (w *World) BreakAsteroid(id uint32) bool {
	i := w.asteroidIndex(id)
	if i < 0 {
		return false
	}
	a := w.asteroids[i]
	w.removeAsteroidAt(i)
	if a.Size != Large {
		return true
	}

	base := w.rng.Float64() * 2 * math.Pi
	for k := 0; k < SplitCount; k++ {
		dir := base + float64(k)*2*math.Pi/SplitCount + (w.rng.Float64()-0.5)*math.Pi/3
		pos := a.Pos.Add(Unit(dir).Scale(w.rng.Float64() * SplitSpread))
		frag := newAsteroid(w.rng, w.nextAsteroidID(), Small, pos)
		speed := SmallMinSpeed + w.rng.Float64()*(SmallMaxSpeed-SmallMinSpeed)
		frag.Vel = Unit(dir).Scale(speed)
		frag.Phase = Seeking
		w.asteroids = append(w.asteroids, frag)
	}
	return true
}

func (w *World) asteroidIndex(id uint32) int {
	for i, a := range w.asteroids {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (w *World) removeAsteroidAt(i int) {
	a := w.asteroids[i]
	a.removed = true
	if a.Size == Large {
		w.largeCount--
	}
	w.asteroids = append(w.asteroids[:i], w.asteroids[i+1:]...)
}

func (w *World) nextAsteroidID() uint32 {
	w.lastID++
	return w.lastID
}

// retarget aims a at a random living ship, or a random point when the
// arena is empty.
func (w *World) retarget(a *Asteroid) {
	target := Vec{X: w.rng.Float64() * w.bounds.W, Y: w.rng.Float64() * w.bounds.H}
	if n := len(w.ships); n > 0 {
		target = w.ships[w.rng.IntN(n)].Pos
	}
	a.seek(w.rng, target)
}

// spawnLarge places a large asteroid just outside a random edge.
func (w *World) spawnLarge() {
	a := newAsteroid(w.rng, w.nextAsteroidID(), Large, Vec{})
	r := a.annulus.Outer
	switch w.rng.IntN(4) {
	case 0:
		a.Pos = Vec{X: -r, Y: w.rng.Float64() * w.bounds.H}
	case 1:
		a.Pos = Vec{X: w.bounds.W + r, Y: w.rng.Float64() * w.bounds.H}
	case 2:
		a.Pos = Vec{X: w.rng.Float64() * w.bounds.W, Y: -r}
	default:
		a.Pos = Vec{X: w.rng.Float64() * w.bounds.W, Y: w.bounds.H + r}
	}
	w.retarget(a)
	w.asteroids = append(w.asteroids, a)
	w.largeCount++
}

func (w *World) topUp() {
	for need := w.RequiredLargeAsteroids(); w.largeCount < need; {
		w.spawnLarge()
	}
}

func (w *World) rebuildSnapshot() {
	snap := Snapshot{
		Tick:        w.frame,
		World:       WorldSize{Width: w.bounds.W, Height: w.bounds.H},
		Ships:       make([]ShipState, 0, len(w.ships)),
		Projectiles: make([]ProjectileState, 0, w.pool.ActiveCount()),
		Asteroids:   make([]AsteroidState, 0, len(w.asteroids)),
	}
	for _, s := range w.ships {
		snap.Ships = append(snap.Ships, s.State())
	}
	w.pool.Each(func(p *Projectile) {
		snap.Projectiles = append(snap.Projectiles, p.State())
	})
	for _, a := range w.asteroids {
		snap.Asteroids = append(snap.Asteroids, a.State())
	}
	w.snapshot = snap
}
