package core

import (
	"time"

	"github.com/dkeye/Battleship/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []domain.ConnID
}

// RoomInfo is a read-only summary for APIs.
type RoomInfo struct {
	ID        domain.GameID `json:"id"`
	BoardSize int           `json:"boardSize"`
	State     domain.Phase  `json:"state"`
	Players   int           `json:"players"`
	Observers int           `json:"observers"`
	TouchedAt time.Time     `json:"touchedAt"`
}
