package protocol

import (
	"encoding/json"

	"asteroids-server/internal/game"
)

// Client -> Server message types
const (
	MsgLogin = "login"
	MsgInput = "input"
)

// Server -> Client message types
const (
	MsgWelcome = "welcome"
	MsgDeath   = "death"
	MsgKill    = "kill"
	MsgError   = "error"
)

// Causes carried by death and kill messages.
const (
	CauseProjectile = "projectile"
	CauseAsteroid   = "asteroid"
	CauseDisconnect = "disconnect"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope defers decoding of the payload until the type is known.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// LoginMsg asks for a new ship.
type LoginMsg struct {
	Name  string `json:"name"`
	Color string `json:"color"` // #rrggbb
}

// InputMsg carries the held controls.
type InputMsg struct {
	Up    bool `json:"up"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Fire  bool `json:"fire"`
}

// Input converts the message to simulation controls.
func (m InputMsg) Input() game.Input {
	return game.Input{Up: m.Up, Left: m.Left, Right: m.Right, Fire: m.Fire}
}

// WelcomeMsg answers a login. Ship.Color is the color on screen right now,
// which blinks while the ship is invincible; Color is the pilot's own.
type WelcomeMsg struct {
	Ship  game.ShipState `json:"ship"`
	Color game.Color     `json:"color"`
	World game.WorldSize `json:"world"`
	Token string         `json:"token,omitempty"`
}

// DeathMsg tells a pilot their ship is gone. By is the killer's name for
// projectile deaths.
type DeathMsg struct {
	Cause string `json:"cause"`
	By    string `json:"by,omitempty"`
}

// KillMsg is broadcast to every session.
type KillMsg struct {
	Cause    string `json:"cause"`
	KillerID string `json:"kid,omitempty"`
	Killer   string `json:"kn,omitempty"`
	VictimID string `json:"vid"`
	Victim   string `json:"vn"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
