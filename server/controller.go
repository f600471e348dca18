package server

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/ai/planner"
	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/bot"
	"github.com/Qoopi/checkers/move"
	"github.com/Qoopi/checkers/movegen"
	"github.com/Qoopi/checkers/pagecells"
)

type GameController struct {
	games *GameManager
	bot   *bot.Bot
}

func NewGameController(games *GameManager, b *bot.Bot) *GameController {
	return &GameController{games: games, bot: b}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Err(err).Str("path", c.Path()).Msg("request-failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// LegalMoves lists every legal move of a position.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	pos, rules, err := gc.bot.Deserialize(c.Body())
	if err != nil {
		return fail(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
	}
	both, err := movegen.NewGenerator(rules).LegalMovesBoth(c.UserContext(), pos.Board)
	if err != nil {
		return fail(c, err)
	}
	moves, other := both.Near, both.Far
	if pos.Side == board.Far {
		moves, other = both.Far, both.Near
	}
	return c.JSON(fiber.Map{
		"side":     pos.Side,
		"moves":    moves,
		"count":    len(moves),
		"mobility": len(moves) - len(other),
	})
}

// PlanCells plans a move for a board read off the game page and lists the
// cells to click to play it.
func (gc *GameController) PlanCells(c *fiber.Ctx) error {
	var req CellsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
	}
	opts := gc.games.opts
	var b board.Board
	var err error
	if len(req.Cells) > 0 {
		b, err = pagecells.Parse(req.Cells, opts.Parity)
	} else {
		b, err = pagecells.ParseOrdered(req.Srcs, opts.Parity)
	}
	if err != nil {
		return fail(c, err)
	}
	m, err := planner.NewGreedyPlanner(movegen.NewGenerator(opts.Rules)).PlanMove(b, req.Side)
	if err != nil {
		return fail(c, err)
	}
	clicks := []string{}
	if m != nil {
		clicks = pagecells.Clicks(*m)
	}
	log.Debug().Str("side", req.Side.String()).Strs("clicks", clicks).Msg("planned-cells")
	return c.JSON(fiber.Map{
		"move":   m,
		"clicks": clicks,
	})
}

// Plan answers with the planner's move, the same reply the bot gives.
func (gc *GameController) Plan(c *fiber.Ctx) error {
	reply := gc.bot.Handle(c.Body())
	var resp bot.Response
	if err := json.Unmarshal(reply, &resp); err != nil {
		return fail(c, err)
	}
	if resp.Error != "" {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	return c.JSON(resp)
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		}
	}
	state, err := gc.games.CreateGame(req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"gameId":  state.Uid,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.games.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var m move.Move
	if err := c.BodyParser(&m); err != nil {
		return fail(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
	}
	state, err := gc.games.MakeMove(c.Params("gameId"), m)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) BotMove(c *fiber.Ctx) error {
	state, m, err := gc.games.BotMove(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"move":  m,
		"state": state,
	})
}
