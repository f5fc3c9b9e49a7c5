package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/rs/zerolog/log"
)

const joinAttempts = 3

// Join puts sid into room id under role, creating the room with boardSize
// if it does not exist yet. Capacity rejections are returned after the room
// has been refreshed.
func (o *Orchestrator) Join(sid domain.ConnID, id domain.GameID, role domain.Role, boardSize int) error {
	return o.JoinWithAck(sid, id, role, boardSize, nil)
}

// JoinWithAck is Join that delivers ack to sid before the room snapshot.
// A rejected join never leaves behind a room it created.
func (o *Orchestrator) JoinWithAck(sid domain.ConnID, id domain.GameID, role domain.Role, boardSize int, ack core.Frame) error {
	if !role.Valid() {
		return fmt.Errorf("join %s as %q: %w", id, role, core.ErrUnknownRole)
	}
	sig, ok := o.Registry.GetSignal(sid)
	if !ok {
		return fmt.Errorf("join %s: %w", id, ErrUnknownConnection)
	}
	for attempt := 0; ; attempt++ {
		room, created := o.Rooms.GetOrCreate(id, boardSize)
		res, err := room.JoinWithAck(sid, sig, role, ack)
		if errors.Is(err, core.ErrRoomClosed) && attempt < joinAttempts {
			// Lost a race with eviction; make sure the dead room is gone.
			o.Rooms.Remove(id, room)
			continue
		}
		if err == nil {
			o.Registry.AddRoom(sid, id)
		} else if created {
			if _, retired := room.Retire(false); retired {
				o.Rooms.Remove(id, room)
			}
		}
		o.handlePublish(room, res)
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(id)).
			Bool("created", created).Err(err).Msg("join")
		return err
	}
}

// OnDisconnect removes sid from every room it belongs to, refreshes those
// rooms and evicts the ones left empty.
func (o *Orchestrator) OnDisconnect(sid domain.ConnID) {
	for _, id := range o.Registry.Unbind(sid) {
		room, ok := o.Rooms.Get(id)
		if !ok {
			continue
		}
		if res, left := room.Leave(sid); left {
			o.handlePublish(room, res)
		}
		if _, retired := room.Retire(false); retired {
			o.Rooms.Remove(id, room)
		}
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnected")
}

// EvictRoom closes room and unlinks its remaining members.
func (o *Orchestrator) EvictRoom(room *core.Session) {
	members, _ := room.Retire(true)
	for _, sid := range members {
		o.Registry.RemoveRoom(sid, room.ID())
	}
	o.Rooms.Remove(room.ID(), room)
}
