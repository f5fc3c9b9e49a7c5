package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	Secret   string `mapstructure:"secret"`

	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`

	DefaultBoardSize int           `mapstructure:"default_board_size"`
	RateLimit        int           `mapstructure:"rate_limit"`
	RateInterval     time.Duration `mapstructure:"rate_interval"`

	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	FinishedTTL   time.Duration `mapstructure:"finished_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "battleship")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("default_board_size", 10)
	v.SetDefault("rate_limit", 20)
	v.SetDefault("rate_interval", "1s")
	v.SetDefault("sweep_interval", "1m")
	v.SetDefault("finished_ttl", "10m")
}

// Load reads config/config.<CONFIG_ENV>.yaml, falling back to defaults when
// the file is missing. BATTLESHIP_* env vars override both.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvPrefix("BATTLESHIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PingPeriod >= cfg.PongWait {
		return nil, fmt.Errorf("ping_period %s must be shorter than pong_wait %s", cfg.PingPeriod, cfg.PongWait)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Int("board_size", cfg.DefaultBoardSize).Msg("config ready")
	return &cfg, nil
}
