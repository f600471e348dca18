// Package shell is an interactive checkers console: load positions, list
// and play moves, ask the planner or the bot, and run self-play batches and
// Lua scripts.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/bot"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/game"
	"github.com/Qoopi/checkers/move"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game loaded; use new or load")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	game        *game.Game
	curGenMoves []move.Move

	botClient *bot.Client
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up the readline prompt. The shell starts with a
// new game from the opening position.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc := newController(cfg)
	l, err := readline.NewEx(&readline.Config{
		Prompt:              "\033[31mcheckers>\033[0m ",
		HistoryFile:         cfg.GetString(config.ConfigReadlineHistory),
		AutoComplete:        NewShellCompleter(sc),
		EOFPrompt:           "exit",
		InterruptPrompt:     "^C",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	return sc, nil
}

func newController(cfg *config.Config) *ShellController {
	sc := &ShellController{config: cfg}
	g, err := game.NewGame(cfg.GameOptions())
	if err != nil {
		// The opening position is always valid.
		panic(err)
	}
	sc.game = g
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stdout())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its arguments and its
// -name value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func intOption(cmd *shellcmd, key string, defaultI int) (int, error) {
	v, ok := cmd.options[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (sc *ShellController) dispatch(ctx context.Context, cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "cgp":
		return sc.cgp(cmd)
	case "gen":
		return sc.generate(cmd)
	case "plan":
		return sc.plan(cmd)
	case "play":
		return sc.play(cmd)
	case "bot":
		return sc.botMove(ctx, cmd)
	case "undo":
		return sc.undo(cmd)
	case "perft":
		return sc.perft(cmd)
	case "autoplay":
		return sc.autoplay(ctx, cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	}
	return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
}

func (sc *ShellController) standardModeSwitch(ctx context.Context, line string, sig chan os.Signal) error {
	cmd, err := extractFields(line)
	if err != nil {
		if err != errNoData {
			sc.showError(err)
		}
		return nil
	}
	if cmd.cmd == "exit" {
		sig <- syscall.SIGINT
		return errors.New("sending quit signal")
	}
	resp, err := sc.dispatch(ctx, cmd)
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

// Execute runs a single command line and writes its output to w.
func (sc *ShellController) Execute(ctx context.Context, line string, w io.Writer) error {
	cmd, err := extractFields(line)
	if err != nil {
		return err
	}
	resp, err := sc.dispatch(ctx, cmd)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		showMessage(resp.message, w)
	}
	return nil
}

// Cleanup closes the bot connection if one was opened.
func (sc *ShellController) Cleanup() {
	if sc.botClient != nil {
		sc.botClient.Close()
		sc.botClient = nil
	}
}

func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.standardModeSwitch(ctx, line, sig); err != nil {
			log.Debug().Err(err).Msg("leaving-loop")
			break
		}
	}
	log.Debug().Msg("exiting-readline-loop")
}
