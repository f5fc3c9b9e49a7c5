package domain

type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) Inside(boardSize int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < boardSize && c.Y < boardSize
}

type ShipClass struct {
	Name string
	Size int
}

// Classes is the fixed fleet composition every player must place.
var Classes = []ShipClass{
	{Name: "Carrier", Size: 5},
	{Name: "Battleship", Size: 4},
	{Name: "Cruiser", Size: 3},
	{Name: "Submarine", Size: 3},
	{Name: "Destroyer", Size: 2},
}

func ClassByName(name string) (ShipClass, bool) {
	for _, c := range Classes {
		if c.Name == name {
			return c, true
		}
	}
	return ShipClass{}, false
}

type Ship struct {
	Name      string `json:"name"`
	Positions []Cell `json:"positions"`
}

func (s Ship) Covers(c Cell) bool {
	for _, p := range s.Positions {
		if p == c {
			return true
		}
	}
	return false
}

type Fleet []Ship
