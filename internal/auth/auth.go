package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenExpiry is how long a pilot token stays valid.
	TokenExpiry = 7 * 24 * time.Hour

	secretSetting = "token_secret"
	secretLen     = 32
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Settings is the key/value storage the signing secret is kept in.
type Settings interface {
	GetSetting(key string) string
	SetSetting(key, value string) error
}

// Claims identify one pilot life.
type Claims struct {
	Name string `json:"usr"`
	jwt.RegisteredClaims
}

// LifeID is the ship ID the token was issued for.
func (c Claims) LifeID() string {
	return c.Subject
}

// Tokens issues and validates pilot tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens creates a token issuer. A non-empty configured secret wins;
// otherwise the secret is loaded from settings, or generated and persisted
// when none exists. settings may be nil.
func NewTokens(configured string, settings Settings) (*Tokens, error) {
	secret := []byte(configured)
	if len(secret) == 0 {
		var err error
		if secret, err = loadOrCreateSecret(settings); err != nil {
			return nil, err
		}
	}
	return &Tokens{secret: secret, now: time.Now}, nil
}

func loadOrCreateSecret(settings Settings) ([]byte, error) {
	if settings != nil {
		if h := settings.GetSetting(secretSetting); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == secretLen {
				return b, nil
			}
		}
	}
	secret := make([]byte, secretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	if settings != nil {
		if err := settings.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist token secret: %v", err)
		}
	}
	return secret, nil
}

// Issue signs a token for the life with the given ship ID.
func (t *Tokens) Issue(lifeID, name string) (string, error) {
	now := t.now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   lifeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses a token and returns its claims.
func (t *Tokens) Validate(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
