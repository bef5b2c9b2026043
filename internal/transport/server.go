package transport

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"asteroids-server/internal/auth"
	"asteroids-server/internal/store"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Scoreboard is the read side of the stats store.
type Scoreboard interface {
	TopLives(limit int) ([]store.LeaderboardEntry, error)
	RecentKills(limit int) ([]store.KillEvent, error)
	GetLife(id string) (*store.Life, error)
}

// TokenValidator checks pilot tokens.
type TokenValidator interface {
	Validate(token string) (auth.Claims, error)
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, scores Scoreboard, tokens TokenValidator) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		entries, err := scores.TopLives(limitParam(r))
		if err != nil {
			log.Printf("leaderboard: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries)
	})

	mux.HandleFunc("GET /api/kills", func(w http.ResponseWriter, r *http.Request) {
		kills, err := scores.RecentKills(limitParam(r))
		if err != nil {
			log.Printf("kills: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, kills)
	})

	mux.HandleFunc("GET /api/pilot", func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || tokens == nil {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := tokens.Validate(strings.TrimSpace(tok))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		life, err := scores.GetLife(claims.LifeID())
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "life not recorded", http.StatusNotFound)
			return
		case err != nil:
			log.Printf("pilot %s: %v", claims.LifeID(), err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, life)
	})

	return mux
}

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultLeaderboardLimit
	}
	return min(n, maxLeaderboardLimit)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
