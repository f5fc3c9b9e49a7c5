package core_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// standardFleet lays the five ships out horizontally on rows 0-4 from x=0.
func standardFleet() domain.Fleet {
	fleet := make(domain.Fleet, 0, len(domain.Classes))
	for row, class := range domain.Classes {
		ship := domain.Ship{Name: class.Name}
		for x := 0; x < class.Size; x++ {
			ship.Positions = append(ship.Positions, domain.Cell{X: x, Y: row})
		}
		fleet = append(fleet, ship)
	}
	return fleet
}

type recLink struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
}

func (l *recLink) TrySend(f core.Frame) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.full {
		return errors.New("backpressure")
	}
	l.frames = append(l.frames, f)
	return nil
}

func (l *recLink) Close() {}

func (l *recLink) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

func (l *recLink) last(t *testing.T) core.Snapshot {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.frames)
	var env core.Envelope
	require.NoError(t, json.Unmarshal(l.frames[len(l.frames)-1], &env))
	require.Equal(t, core.TypeUpdate, env.Type)
	require.NotNil(t, env.Game)
	return *env.Game
}

const (
	playerA domain.ConnID = "A"
	playerB domain.ConnID = "B"
)

// combatSession returns a room where both players placed standardFleet and
// A moves first.
func combatSession(t *testing.T) (*core.Session, *recLink, *recLink) {
	t.Helper()
	s := core.NewSession("r1", 10, core.WithCoin(func() int { return 0 }))
	la, lb := &recLink{}, &recLink{}
	_, err := s.Join(playerA, la, domain.RolePlayer)
	require.NoError(t, err)
	_, err = s.Join(playerB, lb, domain.RolePlayer)
	require.NoError(t, err)
	_, err = s.PlaceShips(playerA, standardFleet())
	require.NoError(t, err)
	_, err = s.PlaceShips(playerB, standardFleet())
	require.NoError(t, err)
	require.Equal(t, domain.PhaseInProgress, s.Phase())
	require.Equal(t, playerA, s.Snapshot().Turn)
	return s, la, lb
}
