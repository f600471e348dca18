package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/ai/planner"
	"github.com/Qoopi/checkers/automatic"
	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/bot"
	"github.com/Qoopi/checkers/cgp"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/game"
	"github.com/Qoopi/checkers/move"
)

const histogramBins = 10

func moveTableHeader() string {
	return "     Move                 Captures  Promotes"
}

func MoveTableRow(idx int, m move.Move) string {
	promotes := ""
	if m.Promotes {
		promotes = "yes"
	}
	return fmt.Sprintf("%3d: %-20s %8d  %s", idx+1, m.String(), len(m.Captures), promotes)
}

func (sc *ShellController) genDisplayMoveList(moves []move.Move) string {
	var s strings.Builder
	s.WriteString(moveTableHeader() + "\n")
	for i, m := range moves {
		s.WriteString(MoveTableRow(i, m) + "\n")
	}
	return s.String()
}

func (sc *ShellController) setGame(g *game.Game) {
	sc.game = g
	sc.curGenMoves = nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	opts := sc.config.GameOptions()
	if len(cmd.args) > 0 {
		side, err := board.ParseSide(cmd.args[0])
		if err != nil {
			return nil, err
		}
		opts.FirstSide = side
	}
	g, err := game.NewGame(opts)
	if err != nil {
		return nil, err
	}
	sc.setGame(g)
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a position in cgp notation")
	}
	pos, err := cgp.ParseCGP(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	g, err := game.FromCGP(pos, sc.config.GameOptions())
	if err != nil {
		return nil, err
	}
	sc.setGame(g)
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) cgp(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToCGP()), nil
}

// generate lists the legal moves, best first. An argument limits how many
// are shown.
func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	n := -1
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	moves, err := sc.game.LegalMoves()
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		sc.curGenMoves = nil
		return msg("No legal moves."), nil
	}
	p := planner.NewGreedyPlanner(sc.game.Generator())
	sc.curGenMoves = p.TopMoves(moves, n)
	return msg(sc.genDisplayMoveList(sc.curGenMoves)), nil
}

func (sc *ShellController) plan(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	moves, err := sc.game.LegalMoves()
	if err != nil {
		return nil, err
	}
	m := planner.NewGreedyPlanner(sc.game.Generator()).BestMove(moves)
	if m == nil {
		return msg("No legal moves."), nil
	}
	return msg(fmt.Sprintf("Planned move: %v (%s)", m, m.ShortDescription())), nil
}

// parseMove reads #n (an index into the last gen listing), "from to", or
// notation such as 52-43.
func (sc *ShellController) parseMove(args []string) (move.Move, error) {
	switch {
	case len(args) == 1 && strings.HasPrefix(args[0], "#"):
		idx, err := strconv.Atoi(args[0][1:])
		if err != nil {
			return move.Move{}, err
		}
		if idx < 1 || idx > len(sc.curGenMoves) {
			return move.Move{}, fmt.Errorf("move #%d not in the last generated list", idx)
		}
		return sc.curGenMoves[idx-1], nil
	case len(args) == 1:
		from, to, _, err := move.FromNotation(args[0])
		if err != nil {
			return move.Move{}, err
		}
		return sc.game.FindMove(from, to)
	case len(args) == 2:
		from, err := board.ParseCoord(args[0])
		if err != nil {
			return move.Move{}, err
		}
		to, err := board.ParseCoord(args[1])
		if err != nil {
			return move.Move{}, err
		}
		return sc.game.FindMove(from, to)
	}
	return move.Move{}, errors.New("play takes #n, a move like 52-43, or two squares")
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	m, err := sc.parseMove(cmd.args)
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	sc.curGenMoves = nil
	return msg(sc.game.ToDisplayText()), nil
}

// botMove asks the NATS bot for a move and plays it.
func (sc *ShellController) botMove(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Playing() != game.StatePlaying {
		return nil, game.ErrGameOver
	}
	if sc.botClient == nil {
		c, err := bot.NewClient(ctx, sc.config)
		if err != nil {
			return nil, err
		}
		sc.botClient = c
	}
	m, err := sc.botClient.RequestMove(ctx, sc.game.Board(), sc.game.SideOnTurn())
	if err != nil {
		return nil, err
	}
	if m == nil {
		return msg("The bot has no move."), nil
	}
	if err := sc.game.PlayMove(*m); err != nil {
		return nil, err
	}
	sc.curGenMoves = nil
	return msg(fmt.Sprintf("Bot played %v\n%s", m, sc.game.ToDisplayText())), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if err := sc.game.Undo(); err != nil {
		return nil, err
	}
	sc.curGenMoves = nil
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) perft(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("need a depth")
	}
	depth, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	var s strings.Builder
	for d := 1; d <= depth; d++ {
		start := time.Now()
		n, err := sc.game.Generator().Perft(sc.game.Board(), sc.game.SideOnTurn(), d)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&s, "depth %d: %d (%v)\n", d, n, time.Since(start).Round(time.Microsecond))
	}
	return msg(s.String()), nil
}

// autoplay plays self-play games and prints their summary.
func (sc *ShellController) autoplay(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a number of games")
	}
	games, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	threads, err := intOption(cmd, "threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	random, err := intOption(cmd, "random", sc.config.GetInt(config.ConfigAutoplayRandomOpenings))
	if err != nil {
		return nil, err
	}
	sc.config.Set(config.ConfigAutoplayRandomOpenings, random)

	var logfile *os.File
	if fn, ok := cmd.options["logfile"]; ok {
		logfile, err = os.Create(fn)
		if err != nil {
			return nil, err
		}
		defer logfile.Close()
	}
	var summary *automatic.Summary
	if logfile != nil {
		summary, err = automatic.StartCompVCompGames(ctx, sc.config, games, threads, logfile)
	} else {
		summary, err = automatic.StartCompVCompGames(ctx, sc.config, games, threads, nil)
	}
	if err != nil {
		return nil, err
	}

	var s strings.Builder
	s.WriteString(summary.String())
	if err := summary.PliesHistogram(&s, histogramBins); err != nil {
		log.Err(err).Msg("histogram-failed")
	}
	if fn, ok := cmd.options["yaml"]; ok {
		out, err := summary.YAML()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(fn, out, 0o644); err != nil {
			return nil, err
		}
		fmt.Fprintf(&s, "Summary written to %s\n", fn)
	}
	return msg(s.String()), nil
}
