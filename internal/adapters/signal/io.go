package signal

import (
	"context"
	"time"

	"github.com/dkeye/Battleship/internal/domain"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

// readPump owns the connection lifetime: when it returns the connection is
// reaped from every room it joined.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid domain.ConnID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
		ctl.Orch.OnDisconnect(sid)
		ctl.limiter.Forget(sid)
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(sid, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(sid domain.ConnID, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, errBadPayload)
		return
	}

	switch env.Type {
	case "joinGame", "placeShips", "fire":
		if !ctl.limiter.Allow(sid) {
			log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", env.Type).Msg("rate limited")
			return
		}
	}

	switch env.Type {
	case "joinGame":
		ctl.handleJoin(sid, c, data)
	case "placeShips":
		ctl.handlePlaceShips(sid, c, data)
	case "fire":
		ctl.handleFire(sid, c, data)
	case "ping":
		ctl.handlePing(c)
	case "whoami":
		ctl.handleWhoAmI(sid, c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

// decode unmarshals a payload and runs its validate tags.
func (ctl *SignalWSController) decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return ctl.validate.Struct(v)
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, msg string) {
	ctl.sendJSON(c, errorMsg{Type: "error", Error: msg})
}
