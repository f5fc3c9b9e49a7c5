package orch

import (
	"fmt"

	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
)

func (o *Orchestrator) PlaceShips(sid domain.ConnID, id domain.GameID, fleet domain.Fleet) error {
	room, ok := o.Rooms.Get(id)
	if !ok {
		return fmt.Errorf("place ships in %s: %w", id, ErrRoomNotFound)
	}
	res, err := room.PlaceShips(sid, fleet)
	o.handlePublish(room, res)
	return err
}

func (o *Orchestrator) Fire(sid domain.ConnID, id domain.GameID, c domain.Cell) (core.Shot, error) {
	room, ok := o.Rooms.Get(id)
	if !ok {
		return core.Shot{}, fmt.Errorf("fire in %s: %w", id, ErrRoomNotFound)
	}
	shot, res, err := room.Fire(sid, c)
	o.handlePublish(room, res)
	return shot, err
}
