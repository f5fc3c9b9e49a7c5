package app

import (
	"sort"
	"sync"
	"time"

	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManager maps room ids to game sessions. Rooms are created on first
// reference; the first creator's board size wins.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[domain.GameID]*core.Session
	opts  []core.SessionOption
}

func NewRoomManager(opts ...core.SessionOption) *RoomManager {
	return &RoomManager{
		rooms: make(map[domain.GameID]*core.Session),
		opts:  opts,
	}
}

// GetOrCreate returns the room for id, creating it with boardSize when it
// does not exist. boardSize is ignored for existing rooms.
func (f *RoomManager) GetOrCreate(id domain.GameID, boardSize int) (*core.Session, bool) {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room, false
	}
	room = core.NewSession(id, boardSize, f.opts...)
	f.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Int("board_size", room.BoardSize()).Msg("room created")
	return room, true
}

func (f *RoomManager) Get(id domain.GameID) (*core.Session, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManager) List() []core.RoomInfo {
	f.mu.RLock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, r.Info())
	}
	f.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *RoomManager) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}

// Remove drops the room only if id still maps to room, so a room recreated
// under the same id is never evicted by a stale reference.
func (f *RoomManager) Remove(id domain.GameID, room *core.Session) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.rooms[id]; !ok || cur != room {
		return false
	}
	delete(f.rooms, id)
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room removed")
	return true
}

// Expired lists finished rooms idle for longer than ttl.
func (f *RoomManager) Expired(now time.Time, ttl time.Duration) []*core.Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*core.Session
	for _, r := range f.rooms {
		info := r.Info()
		if info.State == domain.PhaseFinished && now.Sub(info.TouchedAt) > ttl {
			out = append(out, r)
		}
	}
	return out
}
