package shell

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("checkers_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

type shellFunc func(sc *ShellController, cmd *shellcmd) (*Response, error)

// luaCommand exposes a shell command to scripts. The function takes the
// command's argument line and returns its output, or a string starting
// with ERROR: on failure.
func luaCommand(name string, fn shellFunc) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(strings.TrimSpace(name + " " + lv))
		if err != nil {
			log.Err(err).Msg("error-parsing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := fn(sc, cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("checkers_shell", lsc)
	L.SetGlobal("checkers_load", L.NewFunction(luaCommand("load", (*ShellController).load)))
	L.SetGlobal("checkers_gen", L.NewFunction(luaCommand("gen", (*ShellController).generate)))
	L.SetGlobal("checkers_plan", L.NewFunction(luaCommand("plan", (*ShellController).plan)))
	L.SetGlobal("checkers_play", L.NewFunction(luaCommand("play", (*ShellController).play)))
	L.SetGlobal("checkers_show", L.NewFunction(luaCommand("show", (*ShellController).show)))
	L.SetGlobal("checkers_undo", L.NewFunction(luaCommand("undo", (*ShellController).undo)))
	L.SetGlobal("checkers_cgp", L.NewFunction(luaCommand("cgp", (*ShellController).cgp)))
	L.SetGlobal("checkers_new", L.NewFunction(luaCommand("new", (*ShellController).newGame)))
	L.SetGlobal("checkers_autoplay", L.NewFunction(luaCommand("autoplay",
		func(sc *ShellController, cmd *shellcmd) (*Response, error) {
			return sc.autoplay(context.Background(), cmd)
		})))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("script-error")
		return nil, err
	}
	return nil, nil
}
