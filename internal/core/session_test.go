package core_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/core/coremock"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewSession(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{name: "small", size: 8, want: 8},
		{name: "large", size: 15, want: 15},
		{name: "unset falls back", size: 0, want: domain.DefaultBoardSize},
		{name: "unsupported falls back", size: 12, want: domain.DefaultBoardSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := core.NewSession("r", tt.size)
			assert.Equal(t, tt.want, s.BoardSize())
			assert.Equal(t, domain.PhaseWaiting, s.Phase())
		})
	}
}

func TestSession_JoinPlayers(t *testing.T) {
	s := core.NewSession("r1", 10)
	la, lb, lc := &recLink{}, &recLink{}, &recLink{}

	_, err := s.Join(playerA, la, domain.RolePlayer)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseWaiting, s.Phase())

	res, err := s.Join(playerB, lb, domain.RolePlayer)
	require.NoError(t, err)
	assert.Equal(t, 2, res.SendTo)
	assert.Equal(t, domain.PhasePlacing, s.Phase())

	before := s.Snapshot()
	res, err = s.Join("C", lc, domain.RolePlayer)
	assert.ErrorIs(t, err, core.ErrPlayersFull)
	assert.True(t, core.IsCapacity(err))
	assert.Equal(t, 2, res.SendTo, "rejected join still refreshes the room")
	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, lc.count())

	snap := la.last(t)
	assert.Equal(t, []domain.ConnID{playerA, playerB}, snap.Players)
	assert.Contains(t, snap.Boards, playerA)
	assert.Contains(t, snap.Boards, playerB)
}

func TestSession_JoinObserversCapacity(t *testing.T) {
	s := core.NewSession("r1", 10)
	for i := 0; i < domain.MaxObservers; i++ {
		_, err := s.Join(domain.ConnID(fmt.Sprintf("o%d", i)), &recLink{}, domain.RoleObserver)
		require.NoError(t, err)
	}
	_, err := s.Join("late", &recLink{}, domain.RoleObserver)
	assert.ErrorIs(t, err, core.ErrObserversFull)

	snap := s.Snapshot()
	assert.Len(t, snap.Observers, domain.MaxObservers)
	assert.Empty(t, snap.Boards, "observers have no board")
	assert.Equal(t, domain.PhaseWaiting, snap.State)
}

func TestSession_JoinRejectsWithoutBroadcast(t *testing.T) {
	s := core.NewSession("r1", 10)
	la := &recLink{}
	_, err := s.Join(playerA, la, domain.RolePlayer)
	require.NoError(t, err)
	sent := la.count()

	res, err := s.Join("X", &recLink{}, domain.Role("referee"))
	assert.ErrorIs(t, err, core.ErrUnknownRole)
	assert.Zero(t, res.SendTo)

	_, err = s.Join(playerA, la, domain.RoleObserver)
	assert.ErrorIs(t, err, core.ErrAlreadyJoined)

	assert.Equal(t, sent, la.count())
	assert.Equal(t, 1, s.MemberCount())
}

func TestSession_PlaceShipsPreconditions(t *testing.T) {
	s := core.NewSession("r1", 10)
	la := &recLink{}
	_, err := s.Join(playerA, la, domain.RolePlayer)
	require.NoError(t, err)

	_, err = s.PlaceShips(playerA, standardFleet())
	assert.ErrorIs(t, err, core.ErrWrongPhase)

	_, err = s.Join("obs", &recLink{}, domain.RoleObserver)
	require.NoError(t, err)
	_, err = s.Join(playerB, &recLink{}, domain.RolePlayer)
	require.NoError(t, err)

	sent := la.count()
	_, err = s.PlaceShips("obs", standardFleet())
	assert.ErrorIs(t, err, core.ErrNotPlayer)
	assert.Equal(t, sent, la.count(), "precondition failures do not broadcast")
}

func TestSession_PlaceShipsInvalidFleet(t *testing.T) {
	s := core.NewSession("r1", 10)
	la := &recLink{}
	_, _ = s.Join(playerA, la, domain.RolePlayer)
	_, _ = s.Join(playerB, &recLink{}, domain.RolePlayer)
	sent := la.count()

	fleet := standardFleet()
	fleet[4].Positions = []domain.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}}
	res, err := s.PlaceShips(playerA, fleet)
	assert.ErrorIs(t, err, core.ErrInvalidFleet)
	assert.Equal(t, 2, res.SendTo)
	assert.Equal(t, sent+1, la.count())

	snap := s.Snapshot()
	assert.Equal(t, domain.PhasePlacing, snap.State)
	assert.False(t, snap.ShipsPlaced[playerA])
	assert.Empty(t, snap.Boards[playerA].Ships)
}

func TestSession_PlaceShipsStartsCombat(t *testing.T) {
	for _, pick := range []int{0, 1} {
		t.Run(fmt.Sprintf("coin %d", pick), func(t *testing.T) {
			s := core.NewSession("r1", 10, core.WithCoin(func() int { return pick }))
			_, _ = s.Join(playerA, &recLink{}, domain.RolePlayer)
			_, _ = s.Join(playerB, &recLink{}, domain.RolePlayer)

			_, err := s.PlaceShips(playerA, standardFleet())
			require.NoError(t, err)
			assert.Equal(t, domain.PhasePlacing, s.Phase())

			// Resubmitting during placement replaces the fleet.
			_, err = s.PlaceShips(playerA, standardFleet())
			require.NoError(t, err)
			assert.Equal(t, domain.PhasePlacing, s.Phase())

			_, err = s.PlaceShips(playerB, standardFleet())
			require.NoError(t, err)

			snap := s.Snapshot()
			assert.Equal(t, domain.PhaseInProgress, snap.State)
			assert.Equal(t, []domain.ConnID{playerA, playerB}[pick], snap.Turn)
			assert.Len(t, snap.Boards[playerB].Ships, len(domain.Classes))

			_, err = s.PlaceShips(playerA, standardFleet())
			assert.ErrorIs(t, err, core.ErrWrongPhase)
		})
	}
}

func TestSession_FireMissSwapsTurn(t *testing.T) {
	s, _, lb := combatSession(t)

	shot, res, err := s.Fire(playerA, domain.Cell{X: 9, Y: 9})
	require.NoError(t, err)
	assert.False(t, shot.Hit)
	assert.Equal(t, 2, res.SendTo)

	snap := lb.last(t)
	assert.Equal(t, playerB, snap.Turn)
	assert.Equal(t, []domain.Cell{{X: 9, Y: 9}}, snap.Boards[playerB].Misses)
	assert.Equal(t, []domain.Move{{By: playerA, X: 9, Y: 9, Result: domain.ResultMiss}}, snap.Moves)
}

func TestSession_FireHitKeepsTurnUntilSunk(t *testing.T) {
	s, _, _ := combatSession(t)

	// B's destroyer sits on (0,4) and (1,4).
	shot, _, err := s.Fire(playerA, domain.Cell{X: 0, Y: 4})
	require.NoError(t, err)
	assert.True(t, shot.Hit)
	assert.Equal(t, playerA, s.Snapshot().Turn)

	shot, _, err = s.Fire(playerA, domain.Cell{X: 1, Y: 4})
	require.NoError(t, err)
	assert.True(t, shot.Hit)
	assert.Equal(t, "Destroyer", shot.Sunk)

	snap := s.Snapshot()
	assert.Equal(t, playerB, snap.Turn)
	assert.Equal(t, domain.PhaseInProgress, snap.State)
	assert.Equal(t, domain.ResultHit, snap.Moves[1].Result)
}

func TestSession_FireRejections(t *testing.T) {
	s, la, _ := combatSession(t)
	_, _, err := s.Fire(playerA, domain.Cell{X: 0, Y: 0})
	require.NoError(t, err)

	tests := []struct {
		name string
		by   domain.ConnID
		cell domain.Cell
		want error
	}{
		{name: "not your turn", by: playerB, cell: domain.Cell{X: 5, Y: 5}, want: core.ErrNotYourTurn},
		{name: "stranger", by: "Z", cell: domain.Cell{X: 5, Y: 5}, want: core.ErrNotYourTurn},
		{name: "already hit", by: playerA, cell: domain.Cell{X: 0, Y: 0}, want: core.ErrAlreadyFired},
		{name: "outside board", by: playerA, cell: domain.Cell{X: 10, Y: 0}, want: core.ErrOutOfBounds},
		{name: "negative", by: playerA, cell: domain.Cell{X: 0, Y: -1}, want: core.ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Snapshot()
			sent := la.count()
			_, res, err := s.Fire(tt.by, tt.cell)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, res.SendTo)
			assert.Equal(t, before, s.Snapshot())
			assert.Equal(t, sent, la.count())
		})
	}
}

func TestSession_FireAlreadyMissedIsIdempotent(t *testing.T) {
	s, _, _ := combatSession(t)
	_, _, err := s.Fire(playerA, domain.Cell{X: 9, Y: 9})
	require.NoError(t, err)
	_, _, err = s.Fire(playerB, domain.Cell{X: 9, Y: 9})
	require.NoError(t, err)

	before := s.Snapshot()
	_, _, err = s.Fire(playerA, domain.Cell{X: 9, Y: 9})
	assert.ErrorIs(t, err, core.ErrAlreadyFired)
	assert.Equal(t, before, s.Snapshot())
}

func TestSession_FireBeforeCombat(t *testing.T) {
	s := core.NewSession("r1", 10)
	_, _ = s.Join(playerA, &recLink{}, domain.RolePlayer)
	_, _, err := s.Fire(playerA, domain.Cell{})
	assert.ErrorIs(t, err, core.ErrWrongPhase)
}

func TestSession_FullGame(t *testing.T) {
	s, la, _ := combatSession(t)
	observer := &recLink{}
	_, err := s.Join("obs", observer, domain.RoleObserver)
	require.NoError(t, err)

	phases := []domain.Phase{s.Phase()}
	filler := 0
	for i, ship := range standardFleet() {
		for _, p := range ship.Positions {
			require.Equal(t, playerA, s.Snapshot().Turn)
			_, _, err := s.Fire(playerA, p)
			require.NoError(t, err)
			phases = append(phases, s.Phase())
		}
		if i == len(domain.Classes)-1 {
			break
		}
		require.Equal(t, playerB, s.Snapshot().Turn, "sinking %s passes the turn", ship.Name)
		_, _, err := s.Fire(playerB, domain.Cell{X: 9, Y: filler})
		require.NoError(t, err)
		filler++
	}

	snap := observer.last(t)
	assert.Equal(t, domain.PhaseFinished, snap.State)
	assert.Equal(t, playerA, snap.Winner)
	assert.Empty(t, snap.Turn)
	assert.Len(t, snap.Boards[playerB].Hits, 17)
	assert.Len(t, snap.Moves, 17+4)
	assert.Equal(t, snap, la.last(t))

	for i := 1; i < len(phases); i++ {
		assert.False(t, phases[i].Before(phases[i-1]), "phase regressed at step %d", i)
	}

	_, _, err = s.Fire(playerA, domain.Cell{X: 9, Y: 9})
	assert.ErrorIs(t, err, core.ErrWrongPhase)
}

func TestSession_HitsAndMissesStayDisjoint(t *testing.T) {
	s, _, _ := combatSession(t)
	shooters := []domain.ConnID{playerA, playerB}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			for _, by := range shooters {
				_, _, _ = s.Fire(by, domain.Cell{X: x, Y: y})
				_, _, _ = s.Fire(by, domain.Cell{X: x, Y: y})
			}
		}
	}

	snap := s.Snapshot()
	for id, b := range snap.Boards {
		seen := map[domain.Cell]bool{}
		for _, c := range append(append([]domain.Cell{}, b.Hits...), b.Misses...) {
			assert.False(t, seen[c], "board %s has %v twice", id, c)
			seen[c] = true
		}
	}
}

func TestSession_LeaveMidGame(t *testing.T) {
	s, la, _ := combatSession(t)

	res, ok := s.Leave(playerA)
	require.True(t, ok)
	assert.Equal(t, 1, res.SendTo)

	snap := s.Snapshot()
	assert.Equal(t, domain.PhaseInProgress, snap.State)
	assert.Equal(t, []domain.ConnID{playerB}, snap.Players)
	assert.NotContains(t, snap.Boards, playerA)
	assert.NotContains(t, snap.ShipsPlaced, playerA)
	assert.Equal(t, playerB, snap.Turn, "turn stays with a current player")

	sent := la.count()
	_, ok = s.Leave(playerA)
	assert.False(t, ok)
	assert.Equal(t, sent, la.count())

	_, _, err := s.Fire(playerB, domain.Cell{X: 0, Y: 0})
	assert.ErrorIs(t, err, core.ErrNoOpponent)
}

func TestSession_ReplacementPlayerDoesNotRegressPhase(t *testing.T) {
	s, _, _ := combatSession(t)
	_, _ = s.Leave(playerB)

	_, err := s.Join("C", &recLink{}, domain.RolePlayer)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseInProgress, s.Phase())

	// The newcomer never placed a fleet, so there is nothing to sink.
	_, _, err = s.Fire(playerA, domain.Cell{X: 0, Y: 0})
	assert.ErrorIs(t, err, core.ErrNoOpponent)
}

func TestSession_DroppedMembers(t *testing.T) {
	s := core.NewSession("r1", 10)
	slow := &recLink{full: true}
	_, _ = s.Join(playerA, &recLink{}, domain.RolePlayer)
	res, err := s.Join(playerB, slow, domain.RolePlayer)
	require.NoError(t, err)
	assert.Equal(t, 1, res.SendTo)
	assert.Equal(t, []domain.ConnID{playerB}, res.Dropped)
}

func TestSession_PublishesToMockLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	link := coremock.NewMockSignalConnection(ctrl)

	link.EXPECT().TrySend(gomock.Any()).DoAndReturn(func(f core.Frame) error {
		var env core.Envelope
		require.NoError(t, json.Unmarshal(f, &env))
		assert.Equal(t, core.TypeUpdate, env.Type)
		assert.Equal(t, domain.GameID("r1"), env.Game.ID)
		assert.Equal(t, []domain.ConnID{"obs"}, env.Game.Observers)
		return nil
	}).Times(1)

	s := core.NewSession("r1", 10)
	_, err := s.Join("obs", link, domain.RoleObserver)
	require.NoError(t, err)
}

func TestSession_TouchedAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := core.NewSession("r1", 10, core.WithClock(func() time.Time { return now }))
	assert.Equal(t, now, s.TouchedAt())

	now = now.Add(time.Minute)
	_, _ = s.Join(playerA, &recLink{}, domain.RolePlayer)
	assert.Equal(t, now, s.TouchedAt())

	later := now
	now = now.Add(time.Minute)
	_, _, _ = s.Fire(playerA, domain.Cell{})
	assert.Equal(t, later, s.TouchedAt(), "rejected actions do not count as activity")
}

func TestSession_ConcurrentJoinsRespectCapacity(t *testing.T) {
	s := core.NewSession("r1", 10)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			role := domain.RolePlayer
			if i%2 == 0 {
				role = domain.RoleObserver
			}
			_, _ = s.Join(domain.ConnID(fmt.Sprintf("c%d", i)), &recLink{}, role)
		}(i)
	}
	wg.Wait()

	info := s.Info()
	assert.Equal(t, domain.MaxPlayers, info.Players)
	assert.Equal(t, domain.MaxObservers, info.Observers)
	assert.Equal(t, domain.PhasePlacing, info.State)
}

func TestSession_JoinWithAck(t *testing.T) {
	s := core.NewSession("r1", 10)
	la, lb := &recLink{}, &recLink{}
	ack := core.Frame(`{"type":"joined"}`)

	_, err := s.JoinWithAck(playerA, la, domain.RolePlayer, ack)
	require.NoError(t, err)
	require.Equal(t, 2, la.count())
	assert.Equal(t, ack, la.frames[0])
	assert.Equal(t, []domain.ConnID{playerA}, la.last(t).Players)

	_, err = s.JoinWithAck(playerA, lb, domain.RoleObserver, ack)
	assert.ErrorIs(t, err, core.ErrAlreadyJoined)
	assert.Zero(t, lb.count(), "no ack on a rejected join")
}
