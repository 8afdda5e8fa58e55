package model

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// PlayerID uniquely identifies a player
type PlayerID string

// EventID uniquely identifies a game event
type EventID string

const (
	playerIDPrefix = "p_"
	eventIDPrefix  = "evt_"
)

// generateID generates a random ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// NewPlayerID generates a new random player ID
func NewPlayerID() PlayerID {
	return PlayerID(generateID(playerIDPrefix))
}

// NewEventID generates a new random event ID
func NewEventID() EventID {
	return EventID(generateID(eventIDPrefix))
}

// ParsePlayerID validates an externally supplied player ID string.
// IDs are opaque; only the shape is checked, not existence.
func ParsePlayerID(s string) (PlayerID, error) {
	body, ok := strings.CutPrefix(s, playerIDPrefix)
	if !ok || body == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlayerID, s)
	}
	if _, err := base64.RawURLEncoding.DecodeString(body); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlayerID, s)
	}
	return PlayerID(s), nil
}
