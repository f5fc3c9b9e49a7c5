package core

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/Battleship/internal/domain"
	"github.com/rs/zerolog/log"
)

// Session is one game room. Every operation holds mu for the mutation and
// the broadcast that follows it, so members see snapshots in mutation order.
type Session struct {
	mu sync.Mutex

	id        domain.GameID
	boardSize int
	phase     domain.Phase

	players   []domain.ConnID
	observers []domain.ConnID
	links     map[domain.ConnID]SignalConnection

	boards map[domain.ConnID]*domain.Board
	placed map[domain.ConnID]bool
	turn   domain.ConnID
	moves  []domain.Move
	winner domain.ConnID

	closed    bool
	createdAt time.Time
	touchedAt time.Time

	coin func() int
	now  func() time.Time
}

type SessionOption func(*Session)

// WithCoin replaces the 50/50 pick of the first mover. f must return 0 or 1.
func WithCoin(f func() int) SessionOption {
	return func(s *Session) { s.coin = f }
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a room in the waiting phase. Unsupported board sizes
// fall back to domain.DefaultBoardSize.
func NewSession(id domain.GameID, boardSize int, opts ...SessionOption) *Session {
	if !domain.ValidBoardSize(boardSize) {
		boardSize = domain.DefaultBoardSize
	}
	s := &Session{
		id:        id,
		boardSize: boardSize,
		phase:     domain.PhaseWaiting,
		links:     make(map[domain.ConnID]SignalConnection),
		boards:    make(map[domain.ConnID]*domain.Board),
		placed:    make(map[domain.ConnID]bool),
		coin:      func() int { return rand.IntN(2) },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.createdAt = s.now()
	s.touchedAt = s.createdAt
	return s
}

func (s *Session) ID() domain.GameID { return s.id }

func (s *Session) BoardSize() int { return s.boardSize }

func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) MemberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players) + len(s.observers)
}

func (s *Session) Members() []domain.ConnID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.membersLocked()
}

func (s *Session) IsMember(conn domain.ConnID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isMemberLocked(conn)
}

// TouchedAt is the time of the last accepted mutation.
func (s *Session) TouchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

func (s *Session) Info() RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RoomInfo{
		ID:        s.id,
		BoardSize: s.boardSize,
		State:     s.phase,
		Players:   len(s.players),
		Observers: len(s.observers),
		TouchedAt: s.touchedAt,
	}
}

// Join adds conn to the room under role. Capacity rejections leave the room
// untouched but still push the current snapshot to the members. Unknown
// roles and repeated joins are rejected without a broadcast.
func (s *Session) Join(conn domain.ConnID, link SignalConnection, role domain.Role) (PublishResult, error) {
	return s.JoinWithAck(conn, link, role, nil)
}

// JoinWithAck is Join that queues ack on link ahead of the snapshot the join
// produces. ack is only sent when the join succeeds.
func (s *Session) JoinWithAck(conn domain.ConnID, link SignalConnection, role domain.Role, ack Frame) (PublishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.Valid() {
		return PublishResult{}, fmt.Errorf("join %s as %q: %w", s.id, role, ErrUnknownRole)
	}
	if s.closed {
		return PublishResult{}, fmt.Errorf("join %s: %w", s.id, ErrRoomClosed)
	}
	if s.isMemberLocked(conn) {
		return PublishResult{}, fmt.Errorf("join %s: %w", s.id, ErrAlreadyJoined)
	}

	var err error
	switch role {
	case domain.RolePlayer:
		if len(s.players) >= domain.MaxPlayers {
			err = ErrPlayersFull
			break
		}
		s.players = append(s.players, conn)
		s.boards[conn] = domain.NewBoard()
		s.links[conn] = link
		if len(s.players) == domain.MaxPlayers && s.phase == domain.PhaseWaiting {
			s.phase = domain.PhasePlacing
			clear(s.placed)
		}
	case domain.RoleObserver:
		if len(s.observers) >= domain.MaxObservers {
			err = ErrObserversFull
			break
		}
		s.observers = append(s.observers, conn)
		s.links[conn] = link
	}
	if err == nil {
		if len(ack) > 0 {
			_ = link.TrySend(ack)
		}
		s.touchLocked()
		log.Info().Str("module", "core.session").Str("room", string(s.id)).Str("sid", string(conn)).
			Str("role", string(role)).Str("phase", string(s.phase)).Msg("member joined")
	}
	return s.publishLocked(), err
}

// PlaceShips stores a validated fleet for conn. Once both players have
// submitted, combat starts with a coin-flipped first mover.
func (s *Session) PlaceShips(conn domain.ConnID, fleet domain.Fleet) (PublishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.players, conn) {
		return PublishResult{}, fmt.Errorf("place ships in %s: %w", s.id, ErrNotPlayer)
	}
	if s.phase != domain.PhasePlacing {
		return PublishResult{}, fmt.Errorf("place ships in %s during %s: %w", s.id, s.phase, ErrWrongPhase)
	}
	if err := ValidateFleet(s.boardSize, fleet); err != nil {
		return s.publishLocked(), err
	}

	s.boards[conn].Ships = cloneFleet(fleet)
	s.placed[conn] = true
	if len(s.players) == domain.MaxPlayers && s.placed[s.players[0]] && s.placed[s.players[1]] {
		s.phase = domain.PhaseInProgress
		s.turn = s.players[s.coin()]
		log.Info().Str("module", "core.session").Str("room", string(s.id)).Str("turn", string(s.turn)).Msg("combat started")
	}
	s.touchLocked()
	return s.publishLocked(), nil
}

// Fire resolves a shot by conn at c against the opponent board. Rejected
// shots change nothing and publish nothing.
func (s *Session) Fire(conn domain.ConnID, c domain.Cell) (Shot, PublishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseInProgress {
		return Shot{}, PublishResult{}, fmt.Errorf("fire in %s during %s: %w", s.id, s.phase, ErrWrongPhase)
	}
	if s.turn != conn {
		return Shot{}, PublishResult{}, fmt.Errorf("fire in %s: %w", s.id, ErrNotYourTurn)
	}
	if !c.Inside(s.boardSize) {
		return Shot{}, PublishResult{}, fmt.Errorf("fire at (%d,%d): %w", c.X, c.Y, ErrOutOfBounds)
	}
	opponent, ok := s.opponentLocked(conn)
	if !ok || !s.placed[opponent] {
		return Shot{}, PublishResult{}, fmt.Errorf("fire in %s: %w", s.id, ErrNoOpponent)
	}
	target := s.boards[opponent]
	if target.Fired(c) {
		return Shot{}, PublishResult{}, fmt.Errorf("fire at (%d,%d): %w", c.X, c.Y, ErrAlreadyFired)
	}

	shot := ResolveShot(target, c)
	applyShot(target, shot)
	s.moves = append(s.moves, domain.Move{By: conn, X: c.X, Y: c.Y, Result: shot.Result()})

	switch {
	case shot.Won:
		s.phase = domain.PhaseFinished
		s.winner = conn
		s.turn = ""
		log.Info().Str("module", "core.session").Str("room", string(s.id)).Str("winner", string(conn)).Msg("game finished")
	case !shot.KeepsTurn():
		s.turn = opponent
	}
	s.touchLocked()
	return shot, s.publishLocked(), nil
}

// Leave drops conn from the room. The phase is left alone; if conn held the
// turn it passes to whoever is left.
func (s *Session) Leave(conn domain.ConnID) (PublishResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isMemberLocked(conn) {
		return PublishResult{}, false
	}
	s.players = slices.DeleteFunc(s.players, func(id domain.ConnID) bool { return id == conn })
	s.observers = slices.DeleteFunc(s.observers, func(id domain.ConnID) bool { return id == conn })
	delete(s.boards, conn)
	delete(s.placed, conn)
	delete(s.links, conn)
	if s.turn == conn {
		s.turn = ""
		if len(s.players) > 0 {
			s.turn = s.players[0]
		}
	}
	s.touchLocked()
	log.Info().Str("module", "core.session").Str("room", string(s.id)).Str("sid", string(conn)).
		Str("phase", string(s.phase)).Msg("member left")
	return s.publishLocked(), true
}

// Retire closes the room to new members. Without force it only succeeds on
// an empty room. It returns the members that were still inside; their links
// are dropped.
func (s *Session) Retire(force bool) ([]domain.ConnID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, true
	}
	members := s.membersLocked()
	if len(members) > 0 && !force {
		return nil, false
	}
	s.closed = true
	clear(s.links)
	log.Info().Str("module", "core.session").Str("room", string(s.id)).Int("members", len(members)).Msg("room retired")
	return members, true
}

// Snapshot returns a deep copy of the room state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) opponentLocked(conn domain.ConnID) (domain.ConnID, bool) {
	for _, id := range s.players {
		if id != conn {
			return id, true
		}
	}
	return "", false
}

func (s *Session) isMemberLocked(conn domain.ConnID) bool {
	return slices.Contains(s.players, conn) || slices.Contains(s.observers, conn)
}

func (s *Session) membersLocked() []domain.ConnID {
	out := make([]domain.ConnID, 0, len(s.players)+len(s.observers))
	out = append(out, s.players...)
	return append(out, s.observers...)
}

func (s *Session) touchLocked() {
	s.touchedAt = s.now()
}

func cloneFleet(f domain.Fleet) domain.Fleet {
	out := make(domain.Fleet, len(f))
	for i, ship := range f {
		out[i] = domain.Ship{Name: ship.Name, Positions: slices.Clone(ship.Positions)}
	}
	return out
}
