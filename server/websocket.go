package server

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/move"
)

type WebSocketController struct {
	games *GameManager
}

func NewWebSocketController(games *GameManager) *WebSocketController {
	return &WebSocketController{games: games}
}

// WebSocketUpgrade rejects requests to websocket endpoints that are not
// upgrade requests.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}

// HandleConnection subscribes the connection to its game and plays the
// moves it sends until it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	logger := log.With().Str("gameId", gameID).Logger()

	if err := wsc.games.Subscribe(gameID, c); err != nil {
		logger.Err(err).Msg("subscribe-failed")
		c.WriteJSON(errorMessage(err))
		c.Close()
		return
	}
	defer wsc.games.Unsubscribe(gameID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("websocket-read-ended")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug().Err(err).Msg("websocket-parse-error")
			continue
		}
		if err := wsc.handleMessage(gameID, msg); err != nil {
			wsc.sendError(gameID, c, err)
		}
	}
}

// handleMessage plays the move a message asks for. The new state reaches
// this connection through the subscription.
func (wsc *WebSocketController) handleMessage(gameID string, msg Message) error {
	switch msg.Type {
	case MessageTypeMove:
		var m move.Move
		if err := json.Unmarshal(msg.Payload, &m); err != nil {
			return fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		_, err := wsc.games.MakeMove(gameID, m)
		return err
	case MessageTypeBot:
		_, _, err := wsc.games.BotMove(gameID)
		return err
	default:
		return fmt.Errorf("%w: unknown message type: %s", ErrBadRequest, msg.Type)
	}
}

// sendError writes under the game lock so it cannot interleave with a state
// push.
func (wsc *WebSocketController) sendError(gameID string, w StateWriter, err error) {
	mg, gerr := wsc.games.get(gameID)
	if gerr != nil {
		return
	}
	mg.Lock()
	defer mg.Unlock()
	w.WriteJSON(errorMessage(err))
}
