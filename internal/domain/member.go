package domain

// Role is the part a connection plays in a room.
type Role string

const (
	RolePlayer   Role = "player"
	RoleObserver Role = "observer"
)

const (
	MaxPlayers   = 2
	MaxObservers = 10
)

func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleObserver
}
