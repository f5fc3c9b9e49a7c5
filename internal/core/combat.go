package core

import "github.com/dkeye/Battleship/internal/domain"

// Shot is the computed outcome of firing at one cell.
type Shot struct {
	Cell domain.Cell
	Hit  bool
	// Sunk names the ship this shot finished off, if any.
	Sunk string
	Won  bool
}

func (s Shot) Result() domain.Result {
	if s.Hit {
		return domain.ResultHit
	}
	return domain.ResultMiss
}

// KeepsTurn reports whether the firer acts again: only a hit that did not
// sink anything keeps the turn.
func (s Shot) KeepsTurn() bool {
	return s.Hit && s.Sunk == ""
}

// ResolveShot computes what firing at c does to target without mutating it.
// The caller has already checked that c was not fired at before.
func ResolveShot(target *domain.Board, c domain.Cell) Shot {
	shot := Shot{Cell: c}
	i := target.ShipAt(c)
	if i < 0 {
		return shot
	}
	shot.Hit = true
	if target.Sunk(i, c) {
		shot.Sunk = target.Ships[i].Name
	}
	shot.Won = target.AllSunk(c)
	return shot
}

// applyShot records a resolved shot on the target board.
func applyShot(target *domain.Board, s Shot) {
	if s.Hit {
		target.Hits = append(target.Hits, s.Cell)
		return
	}
	target.Misses = append(target.Misses, s.Cell)
}
