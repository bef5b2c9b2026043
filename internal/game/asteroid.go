package game

import (
	"math"
	"math/rand/v2"
)

// SizeClass is fixed when an asteroid is created.
type SizeClass uint8

const (
	Large SizeClass = iota
	Small
)

func (c SizeClass) String() string {
	if c == Large {
		return "large"
	}
	return "small"
}

// AsteroidPhase tracks the asteroid lifecycle. Destroyed and discarded
// asteroids simply leave the world.
type AsteroidPhase uint8

const (
	Spawning AsteroidPhase = iota
	Seeking
	NeedsRetarget
)

// Asteroid drifts toward a target point, spinning at a constant rate.
type Asteroid struct {
	ID       uint32
	Size     SizeClass
	Pos      Vec
	Vel      Vec
	Rotation float64
	Spin     float64
	Phase    AsteroidPhase

	outline []Vec
	annulus Annulus
	removed bool
}

func newAsteroid(rng *rand.Rand, id uint32, size SizeClass, pos Vec) *Asteroid {
	n, rmin, rmax := LargeVertices, LargeMinRadius, LargeMaxRadius
	if size == Small {
		n, rmin, rmax = SmallVertices, SmallMinRadius, SmallMaxRadius
	}
	outline := convexOutline(rng, n, rmin+rng.Float64()*(rmax-rmin))
	return &Asteroid{
		ID:       id,
		Size:     size,
		Pos:      pos,
		Rotation: rng.Float64() * 2 * math.Pi,
		Spin:     (rng.Float64()*2 - 1) * AsteroidMaxSpin,
		Phase:    Spawning,
		outline:  outline,
		annulus:  polygonAnnulus(outline),
	}
}

// convexOutline places n vertices on a circle of radius r at jittered,
// strictly increasing angles. Points on a circle always form a convex polygon.
func convexOutline(rng *rand.Rand, n int, r float64) []Vec {
	step := 2 * math.Pi / float64(n)
	out := make([]Vec, n)
	for i := range out {
		a := float64(i)*step + (rng.Float64()*0.7-0.35)*step
		out[i] = Vec{X: math.Cos(a) * r, Y: math.Sin(a) * r}
	}
	return out
}

// speedRange returns the min and max speed of the size class.
func (a *Asteroid) speedRange() (float64, float64) {
	if a.Size == Large {
		return LargeMinSpeed, LargeMaxSpeed
	}
	return SmallMinSpeed, SmallMaxSpeed
}

// seek rolls a fresh speed and heads for target.
func (a *Asteroid) seek(rng *rand.Rand, target Vec) {
	lo, hi := a.speedRange()
	speed := lo + rng.Float64()*(hi-lo)
	dir := target.Sub(a.Pos)
	if l := dir.Len(); l > 0 {
		a.Vel = dir.Scale(speed / l)
	} else {
		a.Vel = Unit(rng.Float64() * 2 * math.Pi).Scale(speed)
	}
	a.Phase = Seeking
}

// advance spins and moves the asteroid, flagging it once it is fully clear
// of the playfield and its margin.
func (a *Asteroid) advance(b Bounds) {
	a.Rotation += a.Spin
	a.Pos = a.Pos.Add(a.Vel)
	if b.Clears(a.Pos, a.annulus.Outer, AsteroidOutMargin) {
		a.Phase = NeedsRetarget
	}
}

// NeedsNewTarget reports whether the asteroid has left the playfield.
func (a *Asteroid) NeedsNewTarget() bool {
	return a.Phase == NeedsRetarget
}

func (a *Asteroid) Annulus() Annulus { return a.annulus }
func (a *Asteroid) Outline() []Vec   { return a.outline }

// State returns the public snapshot of the asteroid.
func (a *Asteroid) State() AsteroidState {
	return AsteroidState{
		ID:       a.ID,
		X:        a.Pos.X,
		Y:        a.Pos.Y,
		Rotation: a.Rotation,
		Vertices: cloneVecs(a.outline),
	}
}
