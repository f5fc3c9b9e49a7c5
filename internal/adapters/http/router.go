package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Battleship/internal/adapters/signal"
	"github.com/dkeye/Battleship/internal/app/orch"
	"github.com/dkeye/Battleship/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const clientTokenKey = "client_token"

// ClientTokenMiddleware keeps a per-browser token in the cookie session so
// reconnects from the same client can be told apart in the logs.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			session.Set(clientTokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("BattleshipSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Battleships server running")
	})

	ctrl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:        cfg.ReadLimit,
		PingPeriod:       cfg.PingPeriod,
		PongWait:         cfg.PongWait,
		SendBuffer:       cfg.SendBuffer,
		RateLimit:        cfg.RateLimit,
		RateInterval:     cfg.RateInterval,
		DefaultBoardSize: cfg.DefaultBoardSize,
	})

	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms.List()})
	})
	api.GET("/ws/game", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("ws game endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
