package signal

import "github.com/dkeye/Battleship/internal/domain"

const (
	errBadPayload = "bad_payload"
	errJoinFailed = "join_failed"
)

type joinPayload struct {
	GameID    string `json:"gameId" validate:"required,max=64"`
	Role      string `json:"role"`
	BoardSize int    `json:"boardSize" validate:"omitempty,oneof=8 10 15"`
}

type placeShipsPayload struct {
	GameID string        `json:"gameId" validate:"required,max=64"`
	Ships  []domain.Ship `json:"ships" validate:"max=32"`
}

type firePayload struct {
	GameID string `json:"gameId" validate:"required,max=64"`
	X      *int   `json:"x" validate:"required"`
	Y      *int   `json:"y" validate:"required"`
}

type connectedMsg struct {
	Type string        `json:"type"`
	ID   domain.ConnID `json:"id"`
}

type joinedMsg struct {
	Type string      `json:"type"`
	Role domain.Role `json:"role"`
}

type reasonMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type whoamiMsg struct {
	Type  string          `json:"type"`
	ID    domain.ConnID   `json:"id"`
	Rooms []domain.GameID `json:"rooms"`
}
