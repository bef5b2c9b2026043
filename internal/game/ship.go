package game

import (
	"math"
	"time"
)

// Color is an RGB triple as sent to clients.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// BlinkColor is shown on alternate phases while a ship is invincible.
var BlinkColor = Color{R: 255, G: 255, B: 255}

// Input is the per-session control state.
type Input struct {
	Up    bool `json:"up"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Fire  bool `json:"fire"`
}

var shipOutline = []Vec{
	{X: ShipSize, Y: 0},
	{X: -ShipSize * 0.8, Y: -ShipSize * 0.6},
	{X: -ShipSize * 0.8, Y: ShipSize * 0.6},
}

// Ship is a player-controlled vessel.
type Ship struct {
	ID        string
	Name      string
	BaseColor Color
	Color     Color // BaseColor except while blinking

	Pos      Vec
	Heading  float64
	Vel      Vec
	Acc      Vec
	TurnRate float64

	Boosting bool
	Firing   bool
	ShowTail bool

	Invincible int // ticks left; invincible iff > 0

	AsteroidPoints int
	KillingPoints  int

	lastShot time.Duration
	fired    bool
}

// NewShip creates an invincible ship at pos.
func NewShip(id, name string, color Color, pos Vec, heading float64) *Ship {
	return &Ship{
		ID:         id,
		Name:       name,
		BaseColor:  color,
		Color:      BlinkColor,
		Pos:        pos,
		Heading:    heading,
		Invincible: InvincibleTicks,
	}
}

// IsInvincible reports whether the ship is immune to collisions.
func (s *Ship) IsInvincible() bool {
	return s.Invincible > 0
}

// ApplyInput sets the control intents. Left takes precedence over right.
func (s *Ship) ApplyInput(in Input) {
	switch {
	case in.Left:
		s.TurnRate = -ShipTurnRate
	case in.Right:
		s.TurnRate = ShipTurnRate
	default:
		s.TurnRate = 0
	}
	s.Boosting = in.Up
	s.Firing = in.Fire
}

// Advance integrates one tick of motion and the invincibility countdown.
func (s *Ship) Advance(b Bounds) {
	s.Heading = math.Mod(s.Heading+s.TurnRate, 2*math.Pi)

	if s.Boosting {
		s.Acc = s.Acc.Add(Unit(s.Heading).Scale(ShipThrust)).ClampLen(ShipMaxAccel)
	} else {
		s.Acc = s.Acc.Scale(ShipThrustDecay)
		if s.Acc.Len() < 1e-3 {
			s.Acc = Vec{}
		}
	}

	s.Vel = s.Vel.Add(s.Acc).ClampLen(ShipMaxSpeed).Scale(ShipDrag)
	s.Pos = s.Pos.Add(s.Vel)
	s.wrap(b)
	s.ShowTail = s.Vel.Len() > ShipTailSpeed

	if s.Invincible > 0 {
		s.Invincible--
	}
	s.Color = s.BaseColor
	if s.Invincible > 0 && (s.Invincible/InvincibleBlink)%2 == 0 {
		s.Color = BlinkColor
	}
}

// wrap moves a ship that fully left one edge to the opposite edge.
func (s *Ship) wrap(b Bounds) {
	r := ShipOuterRadius
	switch {
	case s.Pos.X > b.W+r:
		s.Pos.X = -r
	case s.Pos.X < -r:
		s.Pos.X = b.W + r
	}
	switch {
	case s.Pos.Y > b.H+r:
		s.Pos.Y = -r
	case s.Pos.Y < -r:
		s.Pos.Y = b.H + r
	}
}

// readyToFire reports whether the ship wants to and may fire at game time now.
func (s *Ship) readyToFire(now time.Duration) bool {
	if !s.Firing {
		return false
	}
	return !s.fired || now-s.lastShot > ShipFireInterval
}

func (s *Ship) markFired(now time.Duration) {
	s.fired = true
	s.lastShot = now
}

// Nose returns the world position of the ship's tip.
func (s *Ship) Nose() Vec {
	return s.Pos.Add(Unit(s.Heading).Scale(ShipSize))
}

func (s *Ship) Annulus() Annulus {
	return Annulus{Inner: ShipInnerRadius, Outer: ShipOuterRadius}
}

func (s *Ship) Outline() []Vec {
	return shipOutline
}

// State returns the public snapshot of the ship.
func (s *Ship) State() ShipState {
	return ShipState{
		ID:             s.ID,
		Name:           s.Name,
		Color:          s.Color,
		X:              s.Pos.X,
		Y:              s.Pos.Y,
		Size:           ShipSize,
		Heading:        s.Heading,
		Vertices:       cloneVecs(shipOutline),
		ShowTail:       s.ShowTail,
		AsteroidPoints: s.AsteroidPoints,
		KillingPoints:  s.KillingPoints,
	}
}

func cloneVecs(v []Vec) []Vec {
	out := make([]Vec, len(v))
	copy(out, v)
	return out
}
