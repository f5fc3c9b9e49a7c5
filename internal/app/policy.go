package app

import (
	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a member whose outbound queue is full.
type Policy interface {
	OnBackPressure(room *core.Session, member domain.ConnID) BackpressureAction
}

// SimplePolicy disconnects slow members. A member that misses a snapshot
// no longer has a consistent view of the room.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room *core.Session, member domain.ConnID) BackpressureAction {
	return KickMember
}
