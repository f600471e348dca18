// Package bot answers move requests over NATS. A request carries a
// position in cgp notation; the reply carries the planner's move.
package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/ai/planner"
	"github.com/Qoopi/checkers/cache"
	"github.com/Qoopi/checkers/cgp"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/move"
	"github.com/Qoopi/checkers/movegen"
)

// replyEntrySize is a rough size of one cached reply, for cache sizing.
const replyEntrySize = 256

// Request asks for a move in the given position. Rules override the
// position's mcb opcode, which overrides the bot's configured rules.
type Request struct {
	CGP   string         `json:"cgp"`
	Rules *movegen.Rules `json:"rules,omitempty"`
}

type Response struct {
	// Move is null when the side to move has no legal move.
	Move       *move.Move `json:"move"`
	LegalMoves int        `json:"legalMoves"`
	Error      string     `json:"error,omitempty"`
}

type Bot struct {
	config *config.Config
	// replies is keyed on the xxhash of the raw request. Identical requests
	// get identical replies since the planner is deterministic.
	replies *cache.Cache[[]byte]
}

func NewBot(cfg *config.Config) *Bot {
	bot := &Bot{config: cfg}
	if n := cfg.GetInt(config.ConfigCacheMaxEntries); n > 0 {
		bot.replies = cache.New[[]byte](n)
	} else {
		bot.replies = cache.NewFromMemory[[]byte](
			cfg.GetFloat64(config.ConfigCacheMemoryFraction), replyEntrySize)
	}
	return bot
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

// Deserialize reads a request and works out which rules apply to it.
func (bot *Bot) Deserialize(data []byte) (*cgp.ParsedCGP, movegen.Rules, error) {
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, movegen.Rules{}, err
	}
	pos, err := cgp.ParseCGP(req.CGP)
	if err != nil {
		return nil, movegen.Rules{}, err
	}
	rules := bot.config.Rules()
	if mcb, ok := pos.MenCaptureBackward(); ok {
		rules.MenCaptureBackward = mcb
	}
	if req.Rules != nil {
		rules = *req.Rules
	}
	return pos, rules, nil
}

func (bot *Bot) handle(data []byte) *Response {
	pos, rules, err := bot.Deserialize(data)
	if err != nil {
		return errorResponse("could not parse request", err)
	}
	gen := movegen.NewGenerator(rules)
	moves, err := gen.LegalMoves(pos.Board, pos.Side)
	if err != nil {
		return errorResponse("could not generate moves", err)
	}
	p := planner.NewGreedyPlanner(gen)
	m := p.BestMove(moves)
	if m != nil {
		log.Info().Str("move", m.String()).Str("gid", pos.GameID()).Msg("generated-move")
	} else {
		log.Info().Str("gid", pos.GameID()).Msg("no-legal-move")
	}
	return &Response{Move: m, LegalMoves: len(moves)}
}

// Handle answers one raw request with a raw reply.
func (bot *Bot) Handle(data []byte) []byte {
	key := xxhash.Sum64(data)
	if reply, ok := bot.replies.Get(key); ok {
		return reply
	}
	resp := bot.handle(data)
	reply, err := json.Marshal(resp)
	if err != nil {
		// Should never happen, ideally.
		return []byte(fmt.Sprintf(`{"move":null,"legalMoves":0,"error":%q}`, err.Error()))
	}
	// Bad requests are answered but not cached.
	if resp.Error == "" {
		bot.replies.Put(key, reply)
	}
	return reply
}

// Main subscribes the bot to channel and serves requests until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := Connect(ctx, bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("received-request")
		if err := m.Respond(bot.Handle(m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("listening")

	<-ctx.Done()
	return nc.Drain()
}
