package config

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/Qoopi/checkers/board"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.Parity(), board.OddParity)
	is.True(cfg.Rules().MenCaptureBackward)
	is.Equal(cfg.GetInt(ConfigMaxPlies), 200)
	is.Equal(cfg.GetDuration(ConfigBotRequestTimeout), 10*time.Second)
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--board-parity", "even", "--men-capture-backward=false", "--max-plies", "80"})
	is.NoErr(err)
	is.Equal(cfg.Parity(), board.EvenParity)
	is.True(!cfg.Rules().MenCaptureBackward)
	is.Equal(cfg.GetInt(ConfigMaxPlies), 80)
	is.Equal(cfg.GetString(ConfigHTTPAddr), ":8080")
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("CHECKERS_BOARD_PARITY", "even")
	t.Setenv("CHECKERS_HTTP_ADDR", ":9999")
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--http-addr", ":7000"}))
	is.Equal(cfg.Parity(), board.EvenParity)
	// flags beat the environment
	is.Equal(cfg.GetString(ConfigHTTPAddr), ":7000")
}

func TestLoadBadFlag(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.True(cfg.Load([]string{"--no-such-flag"}) != nil)
}

func TestCorsOrigins(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigCorsOrigins, "http://a.test, http://b.test")
	is.Equal(cfg.CorsOrigins(), "http://a.test,http://b.test")
}

func TestGameOptions(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--max-plies", "60", "--board-parity", "even"}))
	opts := cfg.GameOptions()
	is.Equal(opts.MaxPlies, 60)
	is.Equal(opts.Parity, board.EvenParity)
	is.True(opts.Rules.MenCaptureBackward)
}

func TestArgs(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--debug", "perft", "3"}))
	is.Equal(cfg.Args(), []string{"perft", "3"})
	is.True(cfg.GetBool(ConfigDebug))
}
