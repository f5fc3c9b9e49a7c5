package core

import "errors"

// Capacity rejections are reported to the requester; the remaining
// precondition errors stay silent at the protocol boundary.
var (
	ErrPlayersFull   = errors.New("players full")
	ErrObserversFull = errors.New("observers full")
	ErrUnknownRole   = errors.New("invalid role")
	ErrAlreadyJoined = errors.New("already joined")
	ErrRoomClosed    = errors.New("room closed")

	ErrNotPlayer    = errors.New("not a player in this room")
	ErrWrongPhase   = errors.New("wrong phase")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrOutOfBounds  = errors.New("cell outside board")
	ErrNoOpponent   = errors.New("no opponent fleet")
	ErrAlreadyFired = errors.New("cell already fired at")

	ErrInvalidFleet = errors.New("invalid fleet")
)

// IsCapacity reports whether err is a full-room rejection.
func IsCapacity(err error) bool {
	return errors.Is(err, ErrPlayersFull) || errors.Is(err, ErrObserversFull)
}
