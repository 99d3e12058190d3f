// Package player implements player identity and the movement command
// vocabulary of spec §4.5: token minting and validation, and the mapping
// from a client's move string to a dog's velocity and facing. It knows
// nothing about sessions or maps — those live in internal/game and
// internal/world; it imports internal/game only for the Direction type.
package player

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/sonpython/loot-server/internal/apierror"
	"github.com/sonpython/loot-server/internal/game"
)

// TokenLength is the number of hex characters in a rendered token (128
// bits of entropy, per spec §3's invariant).
const TokenLength = 32

// Player links an authentication token to exactly one dog in exactly one
// session, per spec §3.
type Player struct {
	Token     string
	SessionID string
	DogID     uint32
}

// NewToken mints a process-lifetime-unique, uniformly random 32-hex-char
// token.
func NewToken() (string, error) {
	buf := make([]byte, TokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidTokenFormat reports whether s has the exact shape of a minted
// token: 32 lowercase hex characters. Callers use this to distinguish
// invalidToken (malformed) from unknownToken (well-formed but unregistered).
func ValidTokenFormat(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// Command is one of the four directional moves or the empty stop command.
type Command string

const (
	CommandLeft  Command = "L"
	CommandRight Command = "R"
	CommandUp    Command = "U"
	CommandDown  Command = "D"
	CommandStop  Command = ""
)

// Resolve maps a command to the dog direction and velocity it produces at
// the given speed, per spec §4.5. The Y axis grows south, so "U" is
// negative Y — this is an explicit, spec-mandated convention, not a bug.
func (c Command) Resolve(speed float64) (game.Direction, float64, float64, error) {
	switch c {
	case CommandLeft:
		return game.West, -speed, 0, nil
	case CommandRight:
		return game.East, speed, 0, nil
	case CommandUp:
		return game.North, 0, -speed, nil
	case CommandDown:
		return game.South, 0, speed, nil
	case CommandStop:
		return "", 0, 0, nil
	default:
		return "", 0, 0, apierror.InvalidArgument("move must be one of L, R, U, D, or empty")
	}
}
