// Package server exposes move generation, planning and in-memory games over
// HTTP, and pushes game state to websocket subscribers.
package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/cgp"
	"github.com/Qoopi/checkers/game"
	"github.com/Qoopi/checkers/move"
)

var ErrGameNotFound = errors.New("game not found")

// StateWriter receives game state pushes. A websocket connection is one.
type StateWriter interface {
	WriteJSON(v any) error
}

// managedGame is a game with its subscribers. All access goes through its
// mutex, including writes to subscribers.
type managedGame struct {
	sync.Mutex
	game *game.Game
	subs map[StateWriter]struct{}
}

type GameManager struct {
	games map[string]*managedGame
	opts  game.Options
	mu    sync.RWMutex
}

func NewGameManager(opts game.Options) *GameManager {
	return &GameManager{
		games: make(map[string]*managedGame),
		opts:  opts,
	}
}

// CreateGameRequest optionally starts a game from a given position, or
// from the opening with a given side moving first.
type CreateGameRequest struct {
	CGP       string `json:"cgp"`
	FirstSide string `json:"firstSide"`
}

// CreateGame starts a new game and returns its id and state.
func (gm *GameManager) CreateGame(req CreateGameRequest) (game.Snapshot, error) {
	opts := gm.opts
	opts.Uid = uuid.New().String()

	var g *game.Game
	var err error
	switch {
	case req.CGP != "":
		pos, perr := cgp.ParseCGP(req.CGP)
		if perr != nil {
			return game.Snapshot{}, fmt.Errorf("%w: %w", ErrBadRequest, perr)
		}
		g, err = game.FromCGP(pos, opts)
	default:
		if req.FirstSide != "" {
			side, serr := board.ParseSide(req.FirstSide)
			if serr != nil {
				return game.Snapshot{}, fmt.Errorf("%w: %w", ErrBadRequest, serr)
			}
			opts.FirstSide = side
		}
		g, err = game.NewGame(opts)
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[g.Uid()] = &managedGame{game: g, subs: make(map[StateWriter]struct{})}
	log.Info().Str("gameId", g.Uid()).Msg("game-created")
	return g.Snapshot(), nil
}

func (gm *GameManager) get(gameID string) (*managedGame, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	mg, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return mg, nil
}

func (gm *GameManager) GetGameState(gameID string) (game.Snapshot, error) {
	mg, err := gm.get(gameID)
	if err != nil {
		return game.Snapshot{}, err
	}
	mg.Lock()
	defer mg.Unlock()
	return mg.game.Snapshot(), nil
}

// MakeMove plays m in the game. A move without captures is matched on its
// endpoints alone, so a client may send just from and to for any move.
func (gm *GameManager) MakeMove(gameID string, m move.Move) (game.Snapshot, error) {
	mg, err := gm.get(gameID)
	if err != nil {
		return game.Snapshot{}, err
	}
	mg.Lock()
	defer mg.Unlock()

	if len(m.Captures) == 0 && mg.game.Playing() == game.StatePlaying {
		found, err := mg.game.FindMove(m.From, m.To)
		if err != nil {
			return game.Snapshot{}, err
		}
		m = found
	}
	if err := mg.game.PlayMove(m); err != nil {
		return game.Snapshot{}, err
	}
	return mg.publish(), nil
}

// BotMove lets the planner move for the side on turn.
func (gm *GameManager) BotMove(gameID string) (game.Snapshot, *move.Move, error) {
	mg, err := gm.get(gameID)
	if err != nil {
		return game.Snapshot{}, nil, err
	}
	mg.Lock()
	defer mg.Unlock()
	m, err := mg.game.PlayPlanned()
	if err != nil {
		return game.Snapshot{}, nil, err
	}
	return mg.publish(), m, nil
}

// Subscribe registers w for state pushes and sends it the current state.
func (gm *GameManager) Subscribe(gameID string, w StateWriter) error {
	mg, err := gm.get(gameID)
	if err != nil {
		return err
	}
	mg.Lock()
	defer mg.Unlock()
	mg.subs[w] = struct{}{}
	return w.WriteJSON(stateMessage(mg.game.Snapshot()))
}

func (gm *GameManager) Unsubscribe(gameID string, w StateWriter) {
	mg, err := gm.get(gameID)
	if err != nil {
		return
	}
	mg.Lock()
	defer mg.Unlock()
	delete(mg.subs, w)
}

// NumGames is the number of games in memory.
func (gm *GameManager) NumGames() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// publish sends the state to every subscriber and returns it. Subscribers
// that fail to take it are dropped. The caller holds the lock.
func (mg *managedGame) publish() game.Snapshot {
	snap := mg.game.Snapshot()
	msg := stateMessage(snap)
	for w := range mg.subs {
		if err := w.WriteJSON(msg); err != nil {
			log.Err(err).Str("gameId", snap.Uid).Msg("dropping-subscriber")
			delete(mg.subs, w)
		}
	}
	return snap
}
