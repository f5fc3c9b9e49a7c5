package domain

// Board is one player's private state. Hits and Misses record the
// opponent's shots; a cell appears at most once across both.
type Board struct {
	Ships  Fleet  `json:"ships"`
	Hits   []Cell `json:"hits"`
	Misses []Cell `json:"misses"`
}

func NewBoard() *Board {
	return &Board{Ships: Fleet{}, Hits: []Cell{}, Misses: []Cell{}}
}

func (b *Board) Hit(c Cell) bool {
	for _, h := range b.Hits {
		if h == c {
			return true
		}
	}
	return false
}

func (b *Board) Fired(c Cell) bool {
	if b.Hit(c) {
		return true
	}
	for _, m := range b.Misses {
		if m == c {
			return true
		}
	}
	return false
}

// ShipAt returns the index of the ship covering c, or -1.
func (b *Board) ShipAt(c Cell) int {
	for i, s := range b.Ships {
		if s.Covers(c) {
			return i
		}
	}
	return -1
}

// Sunk reports whether every position of ship i is hit, counting extra as
// an additional hit not yet recorded.
func (b *Board) Sunk(i int, extra ...Cell) bool {
	for _, p := range b.Ships[i].Positions {
		if !b.Hit(p) && !containsCell(extra, p) {
			return false
		}
	}
	return true
}

// AllSunk reports whether the whole fleet is down, counting extra as
// additional hits. An empty fleet is never sunk.
func (b *Board) AllSunk(extra ...Cell) bool {
	if len(b.Ships) == 0 {
		return false
	}
	for i := range b.Ships {
		if !b.Sunk(i, extra...) {
			return false
		}
	}
	return true
}

func containsCell(cells []Cell, c Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
