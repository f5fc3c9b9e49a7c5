package core

import (
	"fmt"
	"sort"

	"github.com/dkeye/Battleship/internal/domain"
)

// ValidateFleet checks a submitted fleet against the fixed composition,
// the board bounds and the no-overlap rule. Ship positions may arrive in
// any order but must form one straight contiguous run.
func ValidateFleet(boardSize int, fleet domain.Fleet) error {
	if len(fleet) != len(domain.Classes) {
		return fmt.Errorf("%w: expected %d ships, got %d", ErrInvalidFleet, len(domain.Classes), len(fleet))
	}

	seen := make(map[string]bool, len(fleet))
	occupied := make(map[domain.Cell]string)
	for _, ship := range fleet {
		class, ok := domain.ClassByName(ship.Name)
		if !ok {
			return fmt.Errorf("%w: unknown ship %q", ErrInvalidFleet, ship.Name)
		}
		if seen[ship.Name] {
			return fmt.Errorf("%w: duplicate %s", ErrInvalidFleet, ship.Name)
		}
		seen[ship.Name] = true

		if len(ship.Positions) != class.Size {
			return fmt.Errorf("%w: %s needs %d cells, got %d", ErrInvalidFleet, ship.Name, class.Size, len(ship.Positions))
		}
		for _, p := range ship.Positions {
			if !p.Inside(boardSize) {
				return fmt.Errorf("%w: %s at (%d,%d) is off the board", ErrInvalidFleet, ship.Name, p.X, p.Y)
			}
			if other, taken := occupied[p]; taken {
				return fmt.Errorf("%w: %s overlaps %s at (%d,%d)", ErrInvalidFleet, ship.Name, other, p.X, p.Y)
			}
			occupied[p] = ship.Name
		}
		if !straightRun(ship.Positions) {
			return fmt.Errorf("%w: %s is not a straight contiguous line", ErrInvalidFleet, ship.Name)
		}
	}
	return nil
}

// straightRun assumes the cells are distinct.
func straightRun(cells []domain.Cell) bool {
	if len(cells) == 0 {
		return false
	}
	sorted := make([]domain.Cell, len(cells))
	copy(sorted, cells)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	horizontal, vertical := true, true
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Y != prev.Y || cur.X != prev.X+1 {
			horizontal = false
		}
		if cur.X != prev.X || cur.Y != prev.Y+1 {
			vertical = false
		}
	}
	return horizontal || vertical
}
