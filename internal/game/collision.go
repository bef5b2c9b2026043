package game

// Kind tags the closed set of collidable entity variants.
type Kind uint8

const (
	KindShip Kind = iota
	KindProjectile
	KindAsteroid
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindProjectile:
		return "projectile"
	case KindAsteroid:
		return "asteroid"
	}
	return "unknown"
}

// Ref is a tagged reference to one collidable entity. Only the pointer
// matching Kind is set.
type Ref struct {
	Kind Kind
	ship *Ship
	proj *Projectile
	ast  *Asteroid
}

func ShipRef(s *Ship) Ref             { return Ref{Kind: KindShip, ship: s} }
func ProjectileRef(p *Projectile) Ref { return Ref{Kind: KindProjectile, proj: p} }
func AsteroidRef(a *Asteroid) Ref     { return Ref{Kind: KindAsteroid, ast: a} }

// Position returns the entity center.
func (r Ref) Position() Vec {
	switch r.Kind {
	case KindShip:
		return r.ship.Pos
	case KindProjectile:
		return r.proj.Pos
	default:
		return r.ast.Pos
	}
}

// Annulus returns the entity's broad-phase radii.
func (r Ref) Annulus() Annulus {
	switch r.Kind {
	case KindShip:
		return r.ship.Annulus()
	case KindProjectile:
		return r.proj.Annulus()
	default:
		return r.ast.Annulus()
	}
}

// Outline returns the entity's polygon in local coordinates.
func (r Ref) Outline() []Vec {
	switch r.Kind {
	case KindShip:
		return r.ship.Outline()
	case KindProjectile:
		return r.proj.Outline()
	default:
		return r.ast.Outline()
	}
}

// rule describes how a source kind reacts to a target kind. A zero rule
// means the pair is never checked.
type rule struct {
	candidate func(src, dst Ref) bool
	resolve   func(w *World, src, dst Ref)
}

// rules is indexed [source][target]. Projectiles never act as a source.
var rules = [kindCount][kindCount]rule{
	KindShip: {
		KindProjectile: {
			candidate: func(src, dst Ref) bool {
				p := dst.proj
				return !src.ship.IsInvincible() && p.Active() && !p.recycle && p.OwnerID != src.ship.ID
			},
			resolve: func(w *World, src, dst Ref) { w.shipShot(src.ship, dst.proj) },
		},
		KindAsteroid: {
			candidate: func(src, dst Ref) bool {
				return !src.ship.IsInvincible() && !dst.ast.removed
			},
			resolve: func(w *World, src, dst Ref) { w.shipCrashed(src.ship, dst.ast) },
		},
	},
	KindAsteroid: {
		KindProjectile: {
			candidate: func(src, dst Ref) bool {
				p := dst.proj
				return !src.ast.removed && p.Active() && !p.recycle
			},
			resolve: func(w *World, src, dst Ref) { w.asteroidShot(src.ast, dst.proj) },
		},
	},
}

// IsCollisionCandidate reports whether dst's kind and state make it
// eligible to be hit by src.
func IsCollisionCandidate(src, dst Ref) bool {
	c := rules[src.Kind][dst.Kind].candidate
	return c != nil && c(src, dst)
}

// Collides runs the eligibility check followed by the broad-phase test.
func Collides(src, dst Ref) bool {
	if !IsCollisionCandidate(src, dst) {
		return false
	}
	return Overlaps(src.Position(), src.Annulus(), dst.Position(), dst.Annulus())
}

// tryCollide resolves the pair and reports whether a hit happened.
func (w *World) tryCollide(src, dst Ref) bool {
	if !Collides(src, dst) {
		return false
	}
	rules[src.Kind][dst.Kind].resolve(w, src, dst)
	return true
}
