// Package config loads settings from flags, CHECKERS_* environment
// variables and defaults, in that order of precedence.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/game"
	"github.com/Qoopi/checkers/movegen"
)

const (
	ConfigDebug                  = "debug"
	ConfigBoardParity            = "board-parity"
	ConfigMenCaptureBackward     = "men-capture-backward"
	ConfigMaxPlies               = "max-plies"
	ConfigNatsURL                = "nats-url"
	ConfigBotChannel             = "bot-channel"
	ConfigBotRequestTimeout      = "bot-request-timeout"
	ConfigHTTPAddr               = "http-addr"
	ConfigCorsOrigins            = "cors-origins"
	ConfigCacheMaxEntries        = "cache-max-entries"
	ConfigCacheMemoryFraction    = "cache-memory-fraction"
	ConfigAutoplayThreads        = "autoplay-threads"
	ConfigAutoplayRandomOpenings = "autoplay-random-openings"
	ConfigReadlineHistory        = "readline-history"
)

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig has every default set and nothing else. Meant for tests.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigBoardParity, "odd")
	v.SetDefault(ConfigMenCaptureBackward, true)
	v.SetDefault(ConfigMaxPlies, 200)
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigBotChannel, "checkers.bot")
	v.SetDefault(ConfigBotRequestTimeout, "10s")
	v.SetDefault(ConfigHTTPAddr, ":8080")
	v.SetDefault(ConfigCorsOrigins, "*")
	v.SetDefault(ConfigCacheMaxEntries, 0)
	v.SetDefault(ConfigCacheMemoryFraction, 0.01)
	v.SetDefault(ConfigAutoplayThreads, 4)
	v.SetDefault(ConfigAutoplayRandomOpenings, 0)
	v.SetDefault(ConfigReadlineHistory, "/tmp/checkers_history")
}

// Load reads the command line arguments (without the program name) and
// the environment.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("checkers", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigBoardParity, "odd", "which squares are playable: odd ((row+col)%2==1) or even")
	fs.Bool(ConfigMenCaptureBackward, true, "allow men to capture backward")
	fs.Int(ConfigMaxPlies, 200, "plies after which a game is drawn")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigBotChannel, "checkers.bot", "the NATS subject the bot listens on")
	fs.Duration(ConfigBotRequestTimeout, 0, "how long a bot request may take")
	fs.String(ConfigHTTPAddr, ":8080", "the address the HTTP server binds to")
	fs.String(ConfigCorsOrigins, "*", "comma-separated allowed CORS origins")
	fs.Int(ConfigCacheMaxEntries, 0, "cache size in entries; 0 sizes it from system memory")
	fs.Float64(ConfigCacheMemoryFraction, 0.01, "fraction of system memory for the cache when unsized")
	fs.Int(ConfigAutoplayThreads, 4, "self-play worker goroutines")
	fs.Int(ConfigAutoplayRandomOpenings, 0, "random plies at the start of each self-play game")
	fs.String(ConfigReadlineHistory, "/tmp/checkers_history", "shell history file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	// Only flags that were set override the environment.
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			c.Viper.BindPFlag(f.Name, f)
		}
	})

	c.Viper.SetEnvPrefix("checkers")
	c.Viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.Viper.AutomaticEnv()
	return nil
}

// Args are the command line arguments left after the flags.
func (c *Config) Args() []string {
	return c.args
}

// Parity returns the configured board parity, falling back to odd.
func (c *Config) Parity() board.Parity {
	p, err := board.ParseParity(c.GetString(ConfigBoardParity))
	if err != nil {
		return board.OddParity
	}
	return p
}

func (c *Config) Rules() movegen.Rules {
	return movegen.Rules{MenCaptureBackward: c.GetBool(ConfigMenCaptureBackward)}
}

// CorsOrigins is the comma-separated origins list in the form fiber's
// middleware takes it.
func (c *Config) CorsOrigins() string {
	parts := strings.Split(c.GetString(ConfigCorsOrigins), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

// GameOptions are the options new games start with.
func (c *Config) GameOptions() game.Options {
	return game.Options{
		Rules:    c.Rules(),
		MaxPlies: c.GetInt(ConfigMaxPlies),
		Parity:   c.Parity(),
	}
}
