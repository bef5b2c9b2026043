package game

var projectileOutline = []Vec{
	{X: 0, Y: 0},
	{X: ProjectileLength, Y: 0},
}

type slotState uint8

const (
	slotPooled slotState = iota
	slotActive
)

// Projectile is a shot fired by a ship. Instances live in a ProjectilePool
// and are reused.
type Projectile struct {
	ID      uint32
	OwnerID string // empty while pooled
	Pos     Vec
	Heading float64
	Vel     Vec
	Color   Color

	recycle bool
	slot    int
	state   slotState
}

// NeedsRecycling reports whether the projectile has been consumed or has
// left the playfield.
func (p *Projectile) NeedsRecycling() bool {
	return p.recycle
}

// Active reports whether the projectile is in flight.
func (p *Projectile) Active() bool {
	return p.state == slotActive
}

// advance moves the projectile and sets the sticky recycle flag once it
// leaves the bounds.
func (p *Projectile) advance(b Bounds) {
	p.Pos = p.Pos.Add(p.Vel)
	if !b.Contains(p.Pos) {
		p.recycle = true
	}
}

func (p *Projectile) reset() {
	p.OwnerID = ""
	p.Pos = offstage
	p.Vel = Vec{}
	p.Heading = 0
	p.recycle = false
	p.state = slotPooled
}

func (p *Projectile) Annulus() Annulus {
	return Annulus{Inner: 0, Outer: ProjectileRadius}
}

func (p *Projectile) Outline() []Vec {
	return projectileOutline
}

// State returns the public snapshot of the projectile.
func (p *Projectile) State() ProjectileState {
	return ProjectileState{
		ID:       p.ID,
		X:        p.Pos.X,
		Y:        p.Pos.Y,
		Heading:  p.Heading,
		Vertices: cloneVecs(projectileOutline),
		Color:    p.Color,
	}
}
