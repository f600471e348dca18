package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/matryer/is"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/bot"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/game"
	"github.com/Qoopi/checkers/move"
	"github.com/Qoopi/checkers/pagecells"
)

const (
	standardCGP = "1f1f1f1f/f1f1f1f1/1f1f1f1f/8/8/n1n1n1n1/1n1n1n1n/n1n1n1n1 near par odd;"
	blockedCGP  = "1f6/n7/8/8/8/8/8/8 near par odd;"
)

type gameState struct {
	Uid      string      `json:"uid"`
	Board    board.Board `json:"board"`
	OnTurn   board.Side  `json:"onTurn"`
	Playing  string      `json:"playing"`
	Winner   *board.Side `json:"winner"`
	NumLegal int         `json:"numLegalMoves"`
}

func newTestApp() (*fiber.App, *GameManager) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigCacheMaxEntries, 16)
	games := NewGameManager(cfg.GameOptions())
	return NewApp(cfg, games, bot.NewBot(cfg)), games
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func TestLegalMovesEndpoint(t *testing.T) {
	is := is.New(t)
	app, _ := newTestApp()

	status, data := do(t, app, http.MethodPost, "/api/moves", `{"cgp":"`+standardCGP+`"}`)
	is.Equal(status, fiber.StatusOK)
	var out struct {
		Side     board.Side  `json:"side"`
		Moves    []move.Move `json:"moves"`
		Count    int         `json:"count"`
		Mobility int         `json:"mobility"`
	}
	is.NoErr(json.Unmarshal(data, &out))
	is.Equal(out.Side, board.Near)
	is.Equal(out.Count, 7)
	is.Equal(len(out.Moves), 7)
	is.Equal(out.Mobility, 0)

	status, _ = do(t, app, http.MethodPost, "/api/moves", `{"cgp":"8/8 near"}`)
	is.Equal(status, fiber.StatusBadRequest)
}

func TestPlanEndpoint(t *testing.T) {
	is := is.New(t)
	app, _ := newTestApp()

	status, data := do(t, app, http.MethodPost, "/api/plan", `{"cgp":"`+standardCGP+`"}`)
	is.Equal(status, fiber.StatusOK)
	var resp bot.Response
	is.NoErr(json.Unmarshal(data, &resp))
	is.Equal(resp.Move.String(), "50-41")
	is.Equal(resp.LegalMoves, 7)

	status, data = do(t, app, http.MethodPost, "/api/plan", `{"cgp":"`+blockedCGP+`"}`)
	is.Equal(status, fiber.StatusOK)
	is.True(strings.Contains(string(data), `"move":null`))

	status, _ = do(t, app, http.MethodPost, "/api/plan", `garbage`)
	is.Equal(status, fiber.StatusBadRequest)
}

func pageSrc(b board.Board, c board.Coord) string {
	p, ok := b.Occupant(c)
	switch {
	case !ok:
		return "img/empty.png"
	case p.Side == board.Near:
		return "img/you1.png"
	}
	return "img/me1.png"
}

func TestPlanCellsEndpoint(t *testing.T) {
	is := is.New(t)
	app, _ := newTestApp()
	b := board.StandardBoard(board.OddParity)

	var srcs []string
	var cells []pagecells.Cell
	for r := 0; r < board.Size; r++ {
		for col := 0; col < board.Size; col++ {
			sq := board.Coord{Row: r, Col: col}
			srcs = append(srcs, pageSrc(b, sq))
			cells = append(cells, pagecells.Cell{Name: pagecells.NameFromCoord(sq), Src: pageSrc(b, sq)})
		}
	}
	type planned struct {
		Move   *move.Move `json:"move"`
		Clicks []string   `json:"clicks"`
	}
	for _, req := range []CellsRequest{{Srcs: srcs}, {Cells: cells, Side: board.Near}} {
		body, err := json.Marshal(req)
		is.NoErr(err)
		status, data := do(t, app, http.MethodPost, "/api/cells", string(body))
		is.Equal(status, fiber.StatusOK)
		var out planned
		is.NoErr(json.Unmarshal(data, &out))
		is.Equal(out.Move.String(), "50-41")
		is.Equal(out.Clicks, []string{"space50", "space41"})
	}

	body, err := json.Marshal(CellsRequest{Srcs: srcs[:10]})
	is.NoErr(err)
	status, _ := do(t, app, http.MethodPost, "/api/cells", string(body))
	is.Equal(status, fiber.StatusBadRequest)
}

func TestGameLifecycle(t *testing.T) {
	is := is.New(t)
	app, games := newTestApp()

	status, data := do(t, app, http.MethodPost, "/api/game/create", "")
	is.Equal(status, fiber.StatusOK)
	var created struct {
		GameID string    `json:"gameId"`
		State  gameState `json:"state"`
	}
	is.NoErr(json.Unmarshal(data, &created))
	is.True(created.GameID != "")
	is.Equal(created.State.NumLegal, 7)
	is.Equal(games.NumGames(), 1)

	status, data = do(t, app, http.MethodGet, "/api/game/"+created.GameID, "")
	is.Equal(status, fiber.StatusOK)
	var st gameState
	is.NoErr(json.Unmarshal(data, &st))
	is.Equal(st.Uid, created.GameID)
	is.Equal(st.OnTurn, board.Near)
	is.Equal(st.Playing, "playing")

	status, _ = do(t, app, http.MethodGet, "/api/game/nope", "")
	is.Equal(status, fiber.StatusNotFound)

	// endpoints only
	status, data = do(t, app, http.MethodPost, "/api/game/"+created.GameID+"/move",
		`{"from":{"r":5,"c":2},"to":{"r":4,"c":3}}`)
	is.Equal(status, fiber.StatusOK)
	is.NoErr(json.Unmarshal(data, &st))
	is.Equal(st.OnTurn, board.Far)

	status, _ = do(t, app, http.MethodPost, "/api/game/"+created.GameID+"/move",
		`{"from":{"r":5,"c":0},"to":{"r":3,"c":2}}`)
	is.Equal(status, fiber.StatusBadRequest)

	status, data = do(t, app, http.MethodPost, "/api/game/"+created.GameID+"/bot", "")
	is.Equal(status, fiber.StatusOK)
	var botOut struct {
		Move  *move.Move `json:"move"`
		State gameState  `json:"state"`
	}
	is.NoErr(json.Unmarshal(data, &botOut))
	is.True(botOut.Move != nil)
	is.Equal(botOut.State.OnTurn, board.Near)
}

func TestCreateFromPosition(t *testing.T) {
	is := is.New(t)
	app, _ := newTestApp()

	status, data := do(t, app, http.MethodPost, "/api/game/create", `{"cgp":"`+blockedCGP+`"}`)
	is.Equal(status, fiber.StatusOK)
	var created struct {
		GameID string    `json:"gameId"`
		State  gameState `json:"state"`
	}
	is.NoErr(json.Unmarshal(data, &created))
	is.Equal(created.State.Playing, "won")
	is.Equal(*created.State.Winner, board.Far)

	status, _ = do(t, app, http.MethodPost, "/api/game/"+created.GameID+"/bot", "")
	is.Equal(status, fiber.StatusConflict)

	status, _ = do(t, app, http.MethodPost, "/api/game/create", `{"cgp":"bad"}`)
	is.Equal(status, fiber.StatusBadRequest)
	status, _ = do(t, app, http.MethodPost, "/api/game/create", `{"firstSide":"sideways"}`)
	is.Equal(status, fiber.StatusBadRequest)

	status, data = do(t, app, http.MethodPost, "/api/game/create", `{"firstSide":"far"}`)
	is.Equal(status, fiber.StatusOK)
	is.NoErr(json.Unmarshal(data, &created))
	is.Equal(created.State.OnTurn, board.Far)
}

func TestCreateHonoursPositionOps(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	games := NewGameManager(cfg.GameOptions())
	state, err := games.CreateGame(CreateGameRequest{CGP: standardCGP + "gid mine;mp 1;"})
	is.NoErr(err)
	is.True(state.Uid != "mine")
	is.Equal(state.Playing, game.StatePlaying)

	state, _, err = games.BotMove(state.Uid)
	is.NoErr(err)
	is.Equal(state.Playing, game.StateDrawn)
}

func TestCorsAndUpgrade(t *testing.T) {
	is := is.New(t)
	app, _ := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/moves",
		strings.NewReader(`{"cgp":"`+standardCGP+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://example.com")
	resp, err := app.Test(req, -1)
	is.NoErr(err)
	is.Equal(resp.Header.Get("Access-Control-Allow-Origin"), "*")

	status, _ := do(t, app, http.MethodGet, "/ws/game/abc", "")
	is.Equal(status, fiber.StatusUpgradeRequired)
}

type recorder struct {
	msgs []Message
	fail bool
}

func (r *recorder) WriteJSON(v any) error {
	if r.fail {
		return errors.New("closed")
	}
	r.msgs = append(r.msgs, v.(Message))
	return nil
}

func TestSubscribers(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	games := NewGameManager(cfg.GameOptions())
	state, err := games.CreateGame(CreateGameRequest{})
	is.NoErr(err)

	is.True(errors.Is(games.Subscribe("nope", &recorder{}), ErrGameNotFound))

	good := &recorder{}
	is.NoErr(games.Subscribe(state.Uid, good))
	is.Equal(len(good.msgs), 1)
	is.Equal(good.msgs[0].Type, MessageTypeGameState)

	bad := &recorder{}
	is.NoErr(games.Subscribe(state.Uid, bad))
	bad.fail = true

	_, m, err := games.BotMove(state.Uid)
	is.NoErr(err)
	is.Equal(m.String(), "50-41")
	is.Equal(len(good.msgs), 2)

	var st gameState
	is.NoErr(json.Unmarshal(good.msgs[1].Payload, &st))
	is.Equal(st.OnTurn, board.Far)

	// the failed subscriber was dropped, the good one stays until it leaves
	mg, err := games.get(state.Uid)
	is.NoErr(err)
	is.Equal(len(mg.subs), 1)
	games.Unsubscribe(state.Uid, good)
	is.Equal(len(mg.subs), 0)
}

func TestStatusFor(t *testing.T) {
	is := is.New(t)
	is.Equal(statusFor(ErrGameNotFound), fiber.StatusNotFound)
	is.Equal(statusFor(board.ErrInvalidCoordinate), fiber.StatusBadRequest)
	is.Equal(statusFor(errors.New("boom")), fiber.StatusInternalServerError)
	m := errorMessage(errors.New("boom"))
	is.Equal(string(m.Payload), `"boom"`)
}
