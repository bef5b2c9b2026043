package room

import (
	"context"
	"errors"
	"log"
	"time"

	"asteroids-server/internal/game"
	"asteroids-server/internal/protocol"
	"asteroids-server/internal/store"
)

const inboxSize = 256

var (
	// ErrRoomClosed is returned once Run has returned.
	ErrRoomClosed = errors.New("room closed")
	// ErrAlreadyFlying rejects a login from a session that still has a ship.
	ErrAlreadyFlying = errors.New("already flying")
)

// Conn is the outgoing side of a connected session.
type Conn interface {
	SendJSON(msg any)
	SendBinary(data []byte)
}

// TokenIssuer signs pilot tokens handed out at login.
type TokenIssuer interface {
	Issue(lifeID, name string) (string, error)
}

// Recorder keeps the scoreboard history. Calls must not block.
type Recorder interface {
	RecordLife(l store.Life)
	TrackKill(e store.KillEvent)
}

type session struct {
	shipID  string
	name    string
	color   game.Color
	started time.Time
}

type command func(r *Room)

// Room hosts one World. Run owns the world; every other method hands work to
// the Run goroutine through the inbox.
type Room struct {
	world    *game.World
	interval time.Duration
	inbox    chan command
	done     chan struct{}

	tokens   TokenIssuer
	recorder Recorder
	now      func() time.Time

	sessions map[Conn]*session
	pilots   map[string]Conn // ship ID -> session
}

// New creates a room. tokens and recorder may be nil.
func New(cfg game.Config, tokens TokenIssuer, recorder Recorder) *Room {
	r := &Room{
		interval: cfg.TickPeriod,
		inbox:    make(chan command, inboxSize),
		done:     make(chan struct{}),
		tokens:   tokens,
		recorder: recorder,
		now:      time.Now,
		sessions: make(map[Conn]*session),
		pilots:   make(map[string]Conn),
	}
	if r.interval <= 0 {
		r.interval = game.DefaultTickPeriod
	}
	r.world = game.NewWorld(cfg, r)
	return r
}

// Run drives the simulation until ctx is cancelled. The next tick is armed
// only after the current tick and its broadcast finish.
func (r *Room) Run(ctx context.Context) error {
	defer close(r.done)

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return nil
		case cmd := <-r.inbox:
			cmd(r)
		case <-timer.C:
			r.step()
			timer.Reset(r.interval)
		}
	}
}

// Attach registers a session as a spectator so it receives state frames.
func (r *Room) Attach(conn Conn) {
	r.enqueue(context.Background(), func(r *Room) {
		if _, ok := r.sessions[conn]; !ok {
			r.sessions[conn] = &session{}
		}
	})
}

// Login creates a ship for the session. The welcome message is sent to conn
// from the room goroutine, ahead of the next state frame. If ctx is done by
// the time the room gets to the request, no ship is created.
func (r *Room) Login(ctx context.Context, conn Conn, name string, color game.Color) (protocol.WelcomeMsg, error) {
	type result struct {
		msg protocol.WelcomeMsg
		err error
	}
	reply := make(chan result, 1)
	err := r.enqueue(ctx, func(r *Room) {
		if err := ctx.Err(); err != nil {
			reply <- result{err: err}
			return
		}
		msg, err := r.login(conn, name, color)
		reply <- result{msg, err}
	})
	if err != nil {
		return protocol.WelcomeMsg{}, err
	}
	// Once queued, the command alone decides the outcome, so a ship exists
	// exactly when Login returns nil.
	select {
	case res := <-reply:
		return res.msg, res.err
	case <-r.done:
		select {
		case res := <-reply:
			return res.msg, res.err
		default:
			return protocol.WelcomeMsg{}, ErrRoomClosed
		}
	}
}

// Input queues new controls for the session's ship.
func (r *Room) Input(conn Conn, in game.Input) {
	r.enqueue(context.Background(), func(r *Room) {
		if s, ok := r.sessions[conn]; ok && s.shipID != "" {
			r.world.ApplyInput(s.shipID, in)
		}
	})
}

// Disconnect removes the session and its ship.
func (r *Room) Disconnect(conn Conn) {
	r.enqueue(context.Background(), func(r *Room) { r.disconnect(conn) })
}

func (r *Room) enqueue(ctx context.Context, cmd command) error {
	select {
	case r.inbox <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) login(conn Conn, name string, color game.Color) (protocol.WelcomeMsg, error) {
	s, ok := r.sessions[conn]
	if !ok {
		s = &session{}
		r.sessions[conn] = s
	}
	if s.shipID != "" {
		return protocol.WelcomeMsg{}, ErrAlreadyFlying
	}

	ship := r.world.Login(name, color)
	s.shipID = ship.ID
	s.name = ship.Name
	s.color = color
	s.started = r.now()
	r.pilots[ship.ID] = conn

	msg := protocol.WelcomeMsg{Ship: ship, Color: color, World: r.world.Snapshot().World}
	if r.tokens != nil {
		tok, err := r.tokens.Issue(ship.ID, ship.Name)
		if err != nil {
			log.Printf("issue token for %s: %v", ship.ID, err)
		}
		msg.Token = tok
	}
	conn.SendJSON(protocol.Envelope{T: protocol.MsgWelcome, Data: msg})
	log.Printf("pilot %q joined as %s (%d ships)", ship.Name, ship.ID, r.world.ShipCount())
	return msg, nil
}

func (r *Room) disconnect(conn Conn) {
	s, ok := r.sessions[conn]
	if !ok {
		return
	}
	delete(r.sessions, conn)
	if s.shipID == "" {
		return
	}
	if ship, ok := r.world.Ship(s.shipID); ok {
		r.recordLife(s, ship.State(), protocol.CauseDisconnect, "")
	}
	r.world.Disconnect(s.shipID)
	delete(r.pilots, s.shipID)
	log.Printf("pilot %q left (%d ships)", s.name, r.world.ShipCount())
}

func (r *Room) step() {
	r.world.Tick()
	if len(r.sessions) == 0 {
		return
	}
	data, err := protocol.EncodeSnapshot(r.world.Snapshot())
	if err != nil {
		log.Printf("encode snapshot: %v", err)
		return
	}
	for conn := range r.sessions {
		conn.SendBinary(data)
	}
}

func (r *Room) shutdown() {
	for conn, s := range r.sessions {
		if s.shipID == "" {
			continue
		}
		if ship, ok := r.world.Ship(s.shipID); ok {
			r.recordLife(s, ship.State(), protocol.CauseDisconnect, "")
		}
		delete(r.sessions, conn)
	}
}

func (r *Room) broadcast(msg any) {
	for conn := range r.sessions {
		conn.SendJSON(msg)
	}
}

// ProjectileKilledShip relays a shoot-down and ends the victim's life.
func (r *Room) ProjectileKilledShip(shot game.ProjectileState, shooter *game.ShipState, victim game.ShipState) {
	kill := protocol.KillMsg{Cause: protocol.CauseProjectile, VictimID: victim.ID, Victim: victim.Name}
	if shooter != nil {
		kill.KillerID = shooter.ID
		kill.Killer = shooter.Name
	}
	r.endLife(victim, protocol.CauseProjectile, kill)
}

// ProjectileKilledAsteroid needs no relay: points show up in the next snapshot.
func (r *Room) ProjectileKilledAsteroid(game.ProjectileState, *game.ShipState, game.AsteroidState, game.SizeClass) {
}

// AsteroidKilledShip relays a crash and ends the victim's life.
func (r *Room) AsteroidKilledShip(_ game.AsteroidState, victim game.ShipState) {
	kill := protocol.KillMsg{Cause: protocol.CauseAsteroid, VictimID: victim.ID, Victim: victim.Name}
	r.endLife(victim, protocol.CauseAsteroid, kill)
}

func (r *Room) endLife(victim game.ShipState, cause string, kill protocol.KillMsg) {
	conn, ok := r.pilots[victim.ID]
	if ok {
		delete(r.pilots, victim.ID)
		if s := r.sessions[conn]; s != nil {
			r.recordLife(s, victim, cause, kill.Killer)
			s.shipID = ""
		}
		conn.SendJSON(protocol.Envelope{T: protocol.MsgDeath, Data: protocol.DeathMsg{Cause: cause, By: kill.Killer}})
	}
	r.broadcast(protocol.Envelope{T: protocol.MsgKill, Data: kill})

	if r.recorder != nil {
		r.recorder.TrackKill(store.KillEvent{
			Cause:      cause,
			KillerID:   kill.KillerID,
			KillerName: kill.Killer,
			VictimID:   victim.ID,
			VictimName: victim.Name,
			At:         r.now().UTC(),
		})
	}
	if kill.Killer != "" {
		log.Printf("%q shot down %q", kill.Killer, victim.Name)
	} else {
		log.Printf("%q destroyed by %s", victim.Name, cause)
	}
}

func (r *Room) recordLife(s *session, ship game.ShipState, cause, killedBy string) {
	if r.recorder == nil {
		return
	}
	r.recorder.RecordLife(store.Life{
		ID:             ship.ID,
		Name:           ship.Name,
		Color:          protocol.FormatColor(s.color),
		AsteroidPoints: ship.AsteroidPoints,
		KillingPoints:  ship.KillingPoints,
		Cause:          cause,
		KilledBy:       killedBy,
		StartedAt:      s.started.UTC(),
		EndedAt:        r.now().UTC(),
	})
}
