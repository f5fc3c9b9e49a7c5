package app

import (
	"context"
	"sync"

	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Signal core.SignalConnection
	Cancel context.CancelFunc
	Rooms  map[domain.GameID]struct{}
}

// Registry tracks live connections and the rooms each one belongs to, so
// disconnect cleanup only visits that connection's rooms.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *Registry) BindSignal(sid domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[sid] = &connEntry{Signal: sig, Cancel: cancel, Rooms: make(map[domain.GameID]struct{})}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) GetSignal(sid domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

// Unbind forgets sid and returns the rooms it was still a member of.
func (r *Registry) Unbind(sid domain.ConnID) []domain.GameID {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[sid]
	if !ok {
		return nil
	}
	delete(r.conns, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Int("rooms", len(e.Rooms)).Msg("unbind session")
	return roomList(e.Rooms)
}

func (r *Registry) AddRoom(sid domain.ConnID, room domain.GameID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[sid]
	if !ok {
		return false
	}
	e.Rooms[room] = struct{}{}
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("added room")
	return true
}

func (r *Registry) RemoveRoom(sid domain.ConnID, room domain.GameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[sid]; ok {
		delete(e.Rooms, room)
	}
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("removed room association")
}

func (r *Registry) RoomsOf(sid domain.ConnID) []domain.GameID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[sid]
	if !ok {
		return nil
	}
	return roomList(e.Rooms)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Cancel stops the pumps of sid. The read pump's exit runs the disconnect path.
func (r *Registry) Cancel(sid domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

func roomList(set map[domain.GameID]struct{}) []domain.GameID {
	out := make([]domain.GameID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
