package server

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/game"
	"github.com/Qoopi/checkers/pagecells"
)

// ErrBadRequest marks errors caused by the client's input.
var ErrBadRequest = errors.New("bad request")

// MessageType is the kind of a websocket message.
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeBot       MessageType = "bot"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope of every websocket message.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CellsRequest carries a board scraped off the game page, either as named
// cells or as image sources in page order.
type CellsRequest struct {
	Cells []pagecells.Cell `json:"cells"`
	Srcs  []string         `json:"srcs"`
	Side  board.Side       `json:"side"`
}

func stateMessage(s game.Snapshot) Message {
	payload, _ := json.Marshal(s)
	return Message{Type: MessageTypeGameState, Payload: payload}
}

func errorMessage(err error) Message {
	payload, _ := json.Marshal(err.Error())
	return Message{Type: MessageTypeError, Payload: payload}
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, game.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, board.ErrInvalidCoordinate),
		errors.Is(err, board.ErrInvalidBoardShape):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
