package game

import "math"

// Vec is a 2D point or direction in world units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64  { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Unit returns the unit vector along heading.
func Unit(heading float64) Vec {
	return Vec{math.Cos(heading), math.Sin(heading)}
}

// ClampLen scales v down so its length does not exceed max.
func (v Vec) ClampLen(max float64) Vec {
	l := v.Len()
	if l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

// Annulus is the inner/outer radius pair used for broad-phase tests.
type Annulus struct {
	Inner float64
	Outer float64
}

// Bounds is the playfield rectangle [0,W]x[0,H].
type Bounds struct {
	W, H float64
}

// Contains reports whether p lies inside the playfield.
func (b Bounds) Contains(p Vec) bool {
	return p.X >= 0 && p.X <= b.W && p.Y >= 0 && p.Y <= b.H
}

// Clears reports whether a circle of radius r at p, grown by margin, lies
// entirely outside the playfield on some side.
func (b Bounds) Clears(p Vec, r, margin float64) bool {
	ext := r + margin
	return p.X+ext < 0 || p.X-ext > b.W || p.Y+ext < 0 || p.Y-ext > b.H
}

// Overlaps is the broad-phase circle test: centers closer than the sum of
// the two outer radii.
func Overlaps(a Vec, ra Annulus, b Vec, rb Annulus) bool {
	sum := ra.Outer + rb.Outer
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx+dy*dy < sum*sum
}

// edgeDistance returns the distance from the origin to the line through p and q.
func edgeDistance(p, q Vec) float64 {
	d := q.Sub(p)
	l := d.Len()
	if l == 0 {
		return p.Len()
	}
	return math.Abs(p.X*d.Y-p.Y*d.X) / l
}

// polygonAnnulus derives the annulus of a convex polygon centered on the origin.
func polygonAnnulus(outline []Vec) Annulus {
	var a Annulus
	a.Inner = math.Inf(1)
	for i, p := range outline {
		if l := p.Len(); l > a.Outer {
			a.Outer = l
		}
		q := outline[(i+1)%len(outline)]
		if d := edgeDistance(p, q); d < a.Inner {
			a.Inner = d
		}
	}
	if len(outline) == 0 {
		a.Inner = 0
	}
	return a
}
