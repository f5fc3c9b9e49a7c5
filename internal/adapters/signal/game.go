package signal

import (
	"errors"

	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(
	sid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	var p joinPayload
	if err := ctl.decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, errBadPayload)
		return
	}
	id, err := domain.ParseGameID(p.GameID)
	if err != nil {
		ctl.sendError(conn, errBadPayload)
		return
	}

	size := p.BoardSize
	if size == 0 {
		size = ctl.opts.DefaultBoardSize
	}
	role := domain.Role(p.Role)
	ack, err := json.Marshal(joinedMsg{Type: "joined", Role: role})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode joined ack")
		return
	}
	err = ctl.Orch.JoinWithAck(sid, id, role, size, ack)
	switch {
	case err == nil:
		log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(id)).Str("role", p.Role).Msg("join")
	case errors.Is(err, core.ErrPlayersFull):
		ctl.sendJSON(conn, reasonMsg{Type: "full", Reason: "Players full"})
	case errors.Is(err, core.ErrObserversFull):
		ctl.sendJSON(conn, reasonMsg{Type: "full", Reason: "Observers full"})
	case errors.Is(err, core.ErrUnknownRole), errors.Is(err, core.ErrAlreadyJoined):
		ctl.sendError(conn, rejection(err))
	default:
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(id)).Msg("join failed")
		ctl.sendError(conn, errJoinFailed)
	}
}

func (ctl *SignalWSController) handlePlaceShips(
	sid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	var p placeShipsPayload
	if err := ctl.decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad placeShips payload")
		ctl.sendError(conn, errBadPayload)
		return
	}

	err := ctl.Orch.PlaceShips(sid, domain.GameID(p.GameID), domain.Fleet(p.Ships))
	switch {
	case err == nil:
	case errors.Is(err, core.ErrInvalidFleet):
		log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("fleet rejected")
		ctl.sendJSON(conn, reasonMsg{Type: "invalid-fleet", Reason: err.Error()})
	default:
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("placeShips ignored")
	}
}

func (ctl *SignalWSController) handleFire(
	sid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	var p firePayload
	if err := ctl.decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad fire payload")
		ctl.sendError(conn, errBadPayload)
		return
	}

	cell := domain.Cell{X: *p.X, Y: *p.Y}
	shot, err := ctl.Orch.Fire(sid, domain.GameID(p.GameID), cell)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("fire ignored")
		return
	}
	log.Debug().Str("module", "signal").Str("sid", string(sid)).Int("x", cell.X).Int("y", cell.Y).
		Str("result", string(shot.Result())).Str("sunk", shot.Sunk).Bool("won", shot.Won).Msg("fire")
}

// rejection unwraps err to the sentinel text sent to the client.
func rejection(err error) string {
	for _, known := range []error{core.ErrUnknownRole, core.ErrAlreadyJoined} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
