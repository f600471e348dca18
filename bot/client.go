package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/cgp"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/move"
	"github.com/Qoopi/checkers/movegen"
)

const connectAttempts = 5

// Connect dials the NATS server, backing off between failed attempts.
func Connect(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return nil, err
	}
	return nc, nil
}

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
	timeout time.Duration
	rules   *movegen.Rules
}

// NewClient connects to the bot configured in cfg.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	nc, err := Connect(ctx, cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		return nil, err
	}
	rules := cfg.Rules()
	return &Client{
		nc:      nc,
		channel: cfg.GetString(config.ConfigBotChannel),
		timeout: cfg.GetDuration(config.ConfigBotRequestTimeout),
		rules:   &rules,
	}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

// MakeRequest encodes a request for the position b with side to move.
// rules may be nil to let the bot decide.
func MakeRequest(b board.Board, side board.Side, rules *movegen.Rules) ([]byte, error) {
	req := Request{CGP: cgp.ToCGP(b, side, nil), Rules: rules}
	return json.Marshal(req)
}

// RequestMove sends a position to the bot and gets a move back. The move
// is nil if side has no legal move.
func (c *Client) RequestMove(ctx context.Context, b board.Board, side board.Side) (*move.Move, error) {
	data, err := MakeRequest(b, side, c.rules)
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Err(c.nc.LastError()).Msg("nats-last-error")
		}
		log.Err(err).Msg("bot-request-failed")
		return nil, err
	}
	log.Debug().Str("res", string(res.Data)).Msg("bot-reply")
	return ParseResponse(res.Data)
}

// ParseResponse decodes a bot reply.
func ParseResponse(data []byte) (*move.Move, error) {
	resp := Response{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("bot returned: " + resp.Error)
	}
	return resp.Move, nil
}
