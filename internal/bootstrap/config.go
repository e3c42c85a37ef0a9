package bootstrap

import (
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"nggo/internal/engine"
	errs "nggo/internal/errors"
)

type Config struct {
	ServerPort      string  `mapstructure:"SERVER_PORT"`
	IsLocalCors     bool    `mapstructure:"LOCAL_CORS"`
	MaxSessions     int     `mapstructure:"MAX_SESSIONS"`
	MaxBodyBytes    int64   `mapstructure:"MAX_BODY_BYTES"`
	MaxBoardSize    int     `mapstructure:"MAX_BOARD_SIZE"`
	DefaultSize     int     `mapstructure:"DEFAULT_SIZE"`
	DefaultKomi     float64 `mapstructure:"DEFAULT_KOMI"`
	DefaultHandicap int     `mapstructure:"DEFAULT_HANDICAP"`
	RememberPath    bool    `mapstructure:"REMEMBER_PATH"`
	CheckRepeat     string  `mapstructure:"CHECK_REPEAT"`
	AllowRewrite    bool    `mapstructure:"ALLOW_REWRITE"`
	AllowSuicide    bool    `mapstructure:"ALLOW_SUICIDE"`
}

var defaults = map[string]any{
	"SERVER_PORT":      ":8080",
	"LOCAL_CORS":       false,
	"MAX_SESSIONS":     256,
	"MAX_BODY_BYTES":   1 << 20,
	"MAX_BOARD_SIZE":   25,
	"DEFAULT_SIZE":     19,
	"DEFAULT_KOMI":     0.0,
	"DEFAULT_HANDICAP": 0,
	"REMEMBER_PATH":    true,
	"CHECK_REPEAT":     "KO",
	"ALLOW_REWRITE":    false,
	"ALLOW_SUICIDE":    false,
}

// Setup loads envPath into the environment when it exists and reads the
// configuration from the environment on top of the defaults.
func Setup(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "load %s", envPath)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	// a bare port number listens on every interface
	if !strings.Contains(cfg.ServerPort, ":") {
		cfg.ServerPort = ":" + cfg.ServerPort
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.DefaultSize < 0 {
		return errors.Wrapf(errs.ErrInvalidConfig, "DEFAULT_SIZE %d", c.DefaultSize)
	}
	// 52 is the widest board a record coordinate letter can address
	if c.MaxBoardSize <= 0 || c.MaxBoardSize > 52 {
		return errors.Wrapf(errs.ErrInvalidConfig, "MAX_BOARD_SIZE %d", c.MaxBoardSize)
	}
	if c.DefaultSize > c.MaxBoardSize {
		return errors.Wrapf(errs.ErrInvalidConfig, "DEFAULT_SIZE %d is over MAX_BOARD_SIZE %d", c.DefaultSize, c.MaxBoardSize)
	}
	if c.MaxBodyBytes <= 0 {
		return errors.Wrapf(errs.ErrInvalidConfig, "MAX_BODY_BYTES %d", c.MaxBodyBytes)
	}
	if c.MaxSessions <= 0 {
		return errors.Wrapf(errs.ErrInvalidConfig, "MAX_SESSIONS %d", c.MaxSessions)
	}
	if _, err := engine.ParseRepeatMode(c.CheckRepeat); err != nil {
		return err
	}
	return nil
}

// EngineConfig is the rules configuration every new session starts with.
func (c Config) EngineConfig() engine.Config {
	repeat, err := engine.ParseRepeatMode(c.CheckRepeat)
	if err != nil {
		repeat = engine.RepeatKo
	}
	return engine.Config{
		DefaultSize:     c.DefaultSize,
		MaxSize:         c.MaxBoardSize,
		DefaultKomi:     c.DefaultKomi,
		DefaultHandicap: c.DefaultHandicap,
		RememberPath:    c.RememberPath,
		CheckRepeat:     repeat,
		AllowRewrite:    c.AllowRewrite,
		AllowSuicide:    c.AllowSuicide,
	}
}
