// Package orch routes connection events to game rooms and owns the
// cross-cutting steps around them: reverse-index bookkeeping, backpressure
// handling and room eviction.
package orch

import (
	"context"
	"errors"

	"github.com/dkeye/Battleship/internal/app"
	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

var (
	ErrUnknownConnection = errors.New("unknown connection")
	ErrRoomNotFound      = errors.New("room not found")
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.RoomManager
	Policy   app.Policy

	sweeper     conc.WaitGroup
	stopSweeper context.CancelFunc
}

// handlePublish applies the backpressure policy to members a broadcast
// could not reach.
func (o *Orchestrator) handlePublish(room *core.Session, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("room", string(room.ID())).Str("sid", string(slow)).Msg("kicking slow member")
			o.Kick(slow)
		case app.NoAction:
		}
	}
}

// Kick closes the connection of sid. Its read pump then runs OnDisconnect.
func (o *Orchestrator) Kick(sid domain.ConnID) {
	sig, ok := o.Registry.GetSignal(sid)
	if !ok {
		return
	}
	o.Registry.Cancel(sid)
	sig.Close()
}
