// Package domain contains the game entities shared by the core and adapters.
// Types here carry board bookkeeping only; rules live in core.
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxGameIDLen = 64

var (
	ErrGameIDEmpty   = errors.New("game id empty")
	ErrGameIDTooLong = errors.New("game id too long")
)

// ConnID identifies one live connection. It carries no identity beyond the
// lifetime of the link.
type ConnID string

func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

type GameID string

// ParseGameID rejects ids the registry should never be keyed by.
func ParseGameID(raw string) (GameID, error) {
	if len(raw) == 0 {
		return "", ErrGameIDEmpty
	}
	if len(raw) > MaxGameIDLen {
		return "", ErrGameIDTooLong
	}
	return GameID(raw), nil
}
