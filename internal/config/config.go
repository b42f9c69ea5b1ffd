package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. QUIZCAST_SERVER_PORT.
const EnvPrefix = "QUIZCAST"

type Config struct {
	Server struct {
		Bind      string `mapstructure:"bind"`
		Port      int    `mapstructure:"port"`
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"server"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Quiz struct {
		Scoring        string        `mapstructure:"scoring"`
		BonusPoints    int           `mapstructure:"bonus_points"`
		BonusThreshold time.Duration `mapstructure:"bonus_threshold"`
		PresenterInfo  bool          `mapstructure:"presenter_info"`
		QuestionsFile  string        `mapstructure:"questions_file"`
	} `mapstructure:"quiz"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	Postgres struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"postgres"`
}

// FlagKeys maps command line flags onto config keys.
var FlagKeys = map[string]string{
	"bind":       "server.bind",
	"port":       "server.port",
	"public-url": "server.public_url",
	"scoring":    "quiz.scoring",
	"questions":  "quiz.questions_file",
	"log-level":  "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.public_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("quiz.scoring", "fastest")
	v.SetDefault("quiz.bonus_points", 2)
	v.SetDefault("quiz.bonus_threshold", 5*time.Second)
	v.SetDefault("quiz.presenter_info", true)
	v.SetDefault("quiz.questions_file", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("postgres.url", "")
}

// Load merges defaults, the YAML file at path, QUIZCAST_* environment
// variables and any changed flags, in increasing priority. A missing file is
// an error only when required is set.
func Load(path string, required bool, flags *pflag.FlagSet) (Config, error) {
	cfg := Config{}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return cfg, err
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	switch c.Quiz.Scoring {
	case "fastest", "threshold":
	default:
		return fmt.Errorf("invalid scoring policy %q (want fastest or threshold)", c.Quiz.Scoring)
	}
	if c.Quiz.BonusPoints < 0 {
		return fmt.Errorf("bonus points must not be negative: %d", c.Quiz.BonusPoints)
	}
	if c.Quiz.BonusThreshold < 0 {
		return fmt.Errorf("bonus threshold must not be negative: %s", c.Quiz.BonusThreshold)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (want console or json)", c.Log.Format)
	}
	return nil
}
