// Package game runs a checkers game in memory: whose turn it is, which
// moves have been played, and when the game is over. Nothing is persisted;
// the turn list exists so moves can be shown and taken back.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Qoopi/checkers/ai/planner"
	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/cache"
	"github.com/Qoopi/checkers/cgp"
	"github.com/Qoopi/checkers/move"
	"github.com/Qoopi/checkers/movegen"
	"github.com/Qoopi/checkers/zobrist"
)

const DefaultMaxPlies = 200

// movesCacheSize bounds the legal-move lists a game remembers. Undo and
// replays revisit recent positions.
const movesCacheSize = 256

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
	ErrNoHistory   = errors.New("no turn to undo")
)

// PlayState says whether the game is still going, and if not, how it
// ended.
type PlayState uint8

const (
	StatePlaying PlayState = iota
	StateWon
	StateDrawn
)

func (s PlayState) String() string {
	switch s {
	case StateWon:
		return "won"
	case StateDrawn:
		return "drawn"
	}
	return "playing"
}

func (s PlayState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options configure a new game. Zero values pick the defaults.
type Options struct {
	Uid      string
	Rules    movegen.Rules
	MaxPlies int
	Parity   board.Parity
	// FirstSide moves first in a game from the opening position.
	FirstSide board.Side
}

// DefaultOptions has default rules and Near moving first.
func DefaultOptions() Options {
	return Options{Rules: movegen.DefaultRules, MaxPlies: DefaultMaxPlies}
}

var hasher = zobrist.New()

type Game struct {
	uid      string
	gen      *movegen.Generator
	planner  *planner.GreedyPlanner
	maxPlies int

	board  board.Board
	onturn board.Side
	hash   uint64
	moves  *cache.Cache[[]move.Move]

	playing PlayState
	winner  board.Side

	turns []Turn
	// stateStack holds the position before each turn, for Undo.
	stateStack []board.Board
}

// NewGame starts from the opening position.
func NewGame(opts Options) (*Game, error) {
	return FromPosition(board.StandardBoard(opts.Parity), opts.FirstSide, opts)
}

// FromPosition starts a game from an arbitrary position with side to move.
// The game may already be over if side has no move.
func FromPosition(b board.Board, side board.Side, opts Options) (*Game, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("invalid side %v", side)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	uid := opts.Uid
	if uid == "" {
		uid = uuid.New().String()
	}
	maxPlies := opts.MaxPlies
	if maxPlies <= 0 {
		maxPlies = DefaultMaxPlies
	}
	gen := movegen.NewGenerator(opts.Rules)
	g := &Game{
		uid:      uid,
		gen:      gen,
		planner:  planner.NewGreedyPlanner(gen),
		maxPlies: maxPlies,
		board:    b,
		onturn:   side,
		hash:     hasher.Hash(b, side),
		moves:    cache.New[[]move.Move](movesCacheSize),
	}
	if err := g.checkEnd(); err != nil {
		return nil, err
	}
	log.Debug().Str("uid", uid).Str("onturn", side.String()).Msg("new-game")
	return g, nil
}

// FromCGP starts a game from a parsed position. The position's mcb and mp
// operations override opts, and its gid names the game unless opts already
// carries a Uid.
func FromCGP(pos *cgp.ParsedCGP, opts Options) (*Game, error) {
	if opts.Uid == "" {
		opts.Uid = pos.GameID()
	}
	if mcb, ok := pos.MenCaptureBackward(); ok {
		opts.Rules.MenCaptureBackward = mcb
	}
	if mp, ok := pos.MaxPlies(); ok {
		opts.MaxPlies = mp
	}
	return FromPosition(pos.Board, pos.Side, opts)
}

// LegalMoves lists the moves of the side on turn. It is empty once the game
// is over.
func (g *Game) LegalMoves() ([]move.Move, error) {
	if g.playing != StatePlaying {
		return []move.Move{}, nil
	}
	moves, err := g.legalMoves()
	if err != nil {
		return nil, err
	}
	return cloneMoves(moves), nil
}

func cloneMoves(moves []move.Move) []move.Move {
	return lo.Map(moves, func(m move.Move, _ int) move.Move { return m.Clone() })
}

// legalMoves is keyed by the position hash. The returned moves are shared
// with the cache and must not escape the game.
func (g *Game) legalMoves() ([]move.Move, error) {
	return g.moves.GetOrLoad(g.hash, func(uint64) ([]move.Move, error) {
		return g.gen.LegalMoves(g.board, g.onturn)
	})
}

// PlayMove plays m for the side on turn. m must equal one of the generated
// moves.
func (g *Game) PlayMove(m move.Move) error {
	if g.playing != StatePlaying {
		return ErrGameOver
	}
	moves, err := g.legalMoves()
	if err != nil {
		return err
	}
	legal, ok := lo.Find(moves, func(l move.Move) bool { return l.Equals(m) })
	if !ok {
		return fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}
	return g.play(legal.Clone())
}

func (g *Game) play(m move.Move) error {
	next, err := move.Apply(g.board, m)
	if err != nil {
		return err
	}
	g.stateStack = append(g.stateStack, g.board)
	g.turns = append(g.turns, Turn{Ply: len(g.turns) + 1, Side: g.onturn, Move: m})
	g.hash = hasher.AddMove(g.hash, g.board, m)
	g.board = next
	g.onturn = g.onturn.Opponent()
	log.Debug().Str("uid", g.uid).Str("move", m.String()).Int("ply", len(g.turns)).
		Msg("played-move")
	return g.checkEnd()
}

// FindMove returns the legal move between from and to. When several chains
// share both ends, the first one generated is returned.
func (g *Game) FindMove(from, to board.Coord) (move.Move, error) {
	moves, err := g.LegalMoves()
	if err != nil {
		return move.Move{}, err
	}
	m, ok := lo.Find(moves, func(l move.Move) bool { return l.From == from && l.To == to })
	if !ok {
		return move.Move{}, fmt.Errorf("%w: no move from %v to %v", ErrIllegalMove, from, to)
	}
	return m, nil
}

// PlayPlanned lets the planner choose and play a move for the side on
// turn.
func (g *Game) PlayPlanned() (*move.Move, error) {
	if g.playing != StatePlaying {
		return nil, ErrGameOver
	}
	m, err := g.planner.PlanMove(g.board, g.onturn)
	if err != nil {
		return nil, err
	}
	if m == nil {
		// checkEnd runs after every move, so this is unreachable for a
		// game in progress.
		return nil, ErrGameOver
	}
	return m, g.play(m.Clone())
}

// Undo takes back the last turn and resumes play if it had ended the game.
func (g *Game) Undo() error {
	if len(g.turns) == 0 {
		return ErrNoHistory
	}
	last := g.turns[len(g.turns)-1]
	g.board = g.stateStack[len(g.stateStack)-1]
	g.stateStack = g.stateStack[:len(g.stateStack)-1]
	g.turns = g.turns[:len(g.turns)-1]
	g.onturn = last.Side
	g.hash = hasher.Hash(g.board, g.onturn)
	g.playing = StatePlaying
	return nil
}

// checkEnd ends the game if the side on turn cannot move or the ply limit
// has been reached.
func (g *Game) checkEnd() error {
	moves, err := g.legalMoves()
	if err != nil {
		return err
	}
	switch {
	case len(moves) == 0:
		g.playing = StateWon
		g.winner = g.onturn.Opponent()
		log.Debug().Str("uid", g.uid).Str("winner", g.winner.String()).Msg("game-won")
	case len(g.turns) >= g.maxPlies:
		g.playing = StateDrawn
		log.Debug().Str("uid", g.uid).Int("plies", len(g.turns)).Msg("game-drawn")
	default:
		g.playing = StatePlaying
	}
	return nil
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) SideOnTurn() board.Side {
	return g.onturn
}

func (g *Game) Playing() PlayState {
	return g.playing
}

// Winner is the side that won. ok is false while playing and for draws.
func (g *Game) Winner() (side board.Side, ok bool) {
	if g.playing != StateWon {
		return board.Near, false
	}
	return g.winner, true
}

// Turns returns a copy of the turns played so far.
func (g *Game) Turns() []Turn {
	return lo.Map(g.turns, func(t Turn, _ int) Turn {
		t.Move = t.Move.Clone()
		return t
	})
}

func (g *Game) Ply() int {
	return len(g.turns)
}

func (g *Game) MaxPlies() int {
	return g.maxPlies
}

func (g *Game) Rules() movegen.Rules {
	return g.gen.Rules()
}

func (g *Game) Generator() *movegen.Generator {
	return g.gen
}

// Hash identifies the current position and side to move.
func (g *Game) Hash() uint64 {
	return g.hash
}

// CacheStats reports lookups and hits on the game's legal-move cache.
func (g *Game) CacheStats() (lookups, hits uint64) {
	return g.moves.Stats()
}
