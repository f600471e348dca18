// Package automatic plays computer vs computer checkers games and collects
// statistics about them: how long games run, who wins, how much gets
// captured.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/game"
)

// GameResult is the outcome of one self-play game.
type GameResult struct {
	Uid        string `yaml:"uid"`
	Plies      int    `yaml:"plies"`
	Winner     string `yaml:"winner"`
	Captures   int    `yaml:"captures"`
	Promotions int    `yaml:"promotions"`
}

// Drawn is true when the game hit the ply limit.
func (g GameResult) Drawn() bool {
	return g.Winner == drawLabel
}

const drawLabel = "draw"

func (g GameResult) csvRow() string {
	return fmt.Sprintf("%s,%d,%s,%d,%d\n", g.Uid, g.Plies, g.Winner, g.Captures, g.Promotions)
}

const csvHeader = "gameID,plies,winner,captures,promotions\n"

// GameRunner plays games one after another with the same options.
type GameRunner struct {
	opts game.Options
	// randomOpenings is how many plies at the start are chosen at random
	// instead of by the planner, so that games differ.
	randomOpenings int
	logchan        chan string
	game           *game.Game
}

// NewGameRunner just instantiates a game runner. If logchan is not nil a
// CSV row is sent on it after every game.
func NewGameRunner(logchan chan string, cfg *config.Config) *GameRunner {
	return &GameRunner{
		opts:           cfg.GameOptions(),
		randomOpenings: cfg.GetInt(config.ConfigAutoplayRandomOpenings),
		logchan:        logchan,
	}
}

// Game is the game most recently played.
func (r *GameRunner) Game() *game.Game {
	return r.game
}

// PlayGame plays out a full game from the opening position.
func (r *GameRunner) PlayGame(ctx context.Context) (GameResult, error) {
	g, err := game.NewGame(r.opts)
	if err != nil {
		return GameResult{}, err
	}
	r.game = g
	for ply := 0; g.Playing() == game.StatePlaying; ply++ {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if ply < r.randomOpenings {
			err = r.playRandom()
		} else {
			_, err = g.PlayPlanned()
		}
		if err != nil {
			return GameResult{}, err
		}
	}
	res := resultOf(g)
	log.Debug().Str("uid", res.Uid).Int("plies", res.Plies).Str("winner", res.Winner).
		Msg("game-over")
	if r.logchan != nil {
		r.logchan <- res.csvRow()
	}
	return res, nil
}

func (r *GameRunner) playRandom() error {
	moves, err := r.game.LegalMoves()
	if err != nil {
		return err
	}
	return r.game.PlayMove(moves[frand.Intn(len(moves))])
}

func resultOf(g *game.Game) GameResult {
	res := GameResult{Uid: g.Uid(), Plies: g.Ply(), Winner: drawLabel}
	if w, ok := g.Winner(); ok {
		res.Winner = w.String()
	}
	for _, t := range g.Turns() {
		res.Captures += len(t.Move.Captures)
		if t.Move.Promotes {
			res.Promotions++
		}
	}
	return res
}

// winnerSide converts a result's winner label back to a side.
func winnerSide(label string) (board.Side, bool) {
	if label == drawLabel {
		return board.Near, false
	}
	s, err := board.ParseSide(label)
	return s, err == nil
}
