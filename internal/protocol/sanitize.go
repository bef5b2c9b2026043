package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"asteroids-server/internal/game"
)

const (
	MaxNameLen  = 16
	DefaultName = "Pilot"
)

// DefaultColor is used when a login carries no usable color.
var DefaultColor = game.Color{R: 0x66, G: 0xcc, B: 0xff}

// SanitizeName trims control characters and surrounding space, falls back to
// DefaultName and caps the length at MaxNameLen runes.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if r := []rune(name); len(r) > MaxNameLen {
		name = strings.TrimSpace(string(r[:MaxNameLen]))
	}
	return name
}

// ParseColor reads a #rrggbb string. The leading # is optional.
func ParseColor(s string) (game.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return game.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return game.Color{}, false
	}
	return game.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// ColorOrDefault is ParseColor with the DefaultColor fallback.
func ColorOrDefault(s string) game.Color {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return DefaultColor
}

// FormatColor renders c as #rrggbb.
func FormatColor(c game.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
