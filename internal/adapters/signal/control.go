package signal

import "github.com/dkeye/Battleship/internal/domain"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleWhoAmI(
	sid domain.ConnID,
	conn *WsSignalConn,
) {
	rooms := ctl.Orch.Registry.RoomsOf(sid)
	if rooms == nil {
		rooms = []domain.GameID{}
	}
	ctl.sendJSON(conn, whoamiMsg{Type: "whoami", ID: sid, Rooms: rooms})
}
