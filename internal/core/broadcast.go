package core

import (
	"slices"

	"github.com/dkeye/Battleship/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Snapshot is the complete room state pushed to members after a mutation.
type Snapshot struct {
	ID          domain.GameID                  `json:"id"`
	BoardSize   int                            `json:"boardSize"`
	State       domain.Phase                   `json:"state"`
	Players     []domain.ConnID                `json:"players"`
	Observers   []domain.ConnID                `json:"observers"`
	Boards      map[domain.ConnID]domain.Board `json:"boards"`
	ShipsPlaced map[domain.ConnID]bool         `json:"shipsPlaced"`
	Moves       []domain.Move                  `json:"moves"`
	Turn        domain.ConnID                  `json:"turn,omitempty"`
	Winner      domain.ConnID                  `json:"winner,omitempty"`
}

// Envelope is the outer shape of every server message.
type Envelope struct {
	Type string    `json:"type"`
	Game *Snapshot `json:"game,omitempty"`
}

const TypeUpdate = "update"

func EncodeUpdate(snap Snapshot) (Frame, error) {
	return json.Marshal(Envelope{Type: TypeUpdate, Game: &snap})
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.id,
		BoardSize:   s.boardSize,
		State:       s.phase,
		Players:     slices.Clone(s.players),
		Observers:   slices.Clone(s.observers),
		Boards:      make(map[domain.ConnID]domain.Board, len(s.boards)),
		ShipsPlaced: make(map[domain.ConnID]bool, len(s.placed)),
		Moves:       slices.Clone(s.moves),
		Turn:        s.turn,
		Winner:      s.winner,
	}
	if snap.Players == nil {
		snap.Players = []domain.ConnID{}
	}
	if snap.Observers == nil {
		snap.Observers = []domain.ConnID{}
	}
	if snap.Moves == nil {
		snap.Moves = []domain.Move{}
	}
	for id, b := range s.boards {
		snap.Boards[id] = domain.Board{
			Ships:  cloneFleet(b.Ships),
			Hits:   slices.Clone(b.Hits),
			Misses: slices.Clone(b.Misses),
		}
	}
	for id, ok := range s.placed {
		snap.ShipsPlaced[id] = ok
	}
	return snap
}

// publishLocked pushes the full snapshot to every member link. Sends never
// block; members whose queue is full are reported as dropped.
func (s *Session) publishLocked() PublishResult {
	res := PublishResult{}
	frame, err := EncodeUpdate(s.snapshotLocked())
	if err != nil {
		log.Error().Err(err).Str("module", "core.session").Str("room", string(s.id)).Msg("encode snapshot")
		return res
	}
	for _, id := range s.membersLocked() {
		link := s.links[id]
		if link == nil {
			continue
		}
		if err := link.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.session").Str("room", string(s.id)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
