package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Battleship/internal/app/orch"
	"github.com/dkeye/Battleship/internal/core"
	"github.com/dkeye/Battleship/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	PongWait     time.Duration
	SendBuffer   int
	RateLimit    int
	RateInterval time.Duration

	// DefaultBoardSize is used when a join names no board size.
	DefaultBoardSize int
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 32
	}
	if !domain.ValidBoardSize(o.DefaultBoardSize) {
		o.DefaultBoardSize = domain.DefaultBoardSize
	}
	return o
}

type SignalWSController struct {
	Orch *orch.Orchestrator

	opts     Options
	limiter  *RateLimiter
	validate *validator.Validate
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	return &SignalWSController{
		Orch:     o,
		opts:     opts.withDefaults(),
		limiter:  NewRateLimiter(opts.RateLimit, opts.RateInterval),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection until either
// side goes away. Every connection gets a fresh id; the client token only
// correlates log lines.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.NewConnID()
	client := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", client).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.BindSignal(sid, conn, cancel)
	ctl.sendJSON(conn, connectedMsg{Type: "connected", ID: sid})

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
