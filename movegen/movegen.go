// Package movegen generates the legal moves of a checkers position: quiet
// steps, multi-jump capture chains and the forced-capture rule that chooses
// between them.
package movegen

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

// Direction is a diagonal unit step.
type Direction struct {
	DR, DC int
}

var allDirections = [4]Direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// AllDirections returns the four diagonals in a fixed order: up-left,
// up-right, down-left, down-right.
func AllDirections() []Direction {
	return allDirections[:]
}

// ForwardDirections returns the two diagonals that advance side toward its
// promotion row, left one first.
func ForwardDirections(side board.Side) []Direction {
	f := side.Forward()
	return []Direction{{f, -1}, {f, 1}}
}

// Rules holds the rule options the generator understands.
type Rules struct {
	// MenCaptureBackward lets a man jump in all four diagonals. When false a
	// man only captures forward, as in English draughts; kings always use
	// all four.
	MenCaptureBackward bool `json:"menCaptureBackward" yaml:"men-capture-backward"`
}

// DefaultRules treats men and kings alike for capture direction.
var DefaultRules = Rules{MenCaptureBackward: true}

// Generator generates moves under a fixed set of rules. It holds no
// position state and is safe for concurrent use.
type Generator struct {
	rules Rules
}

func NewGenerator(rules Rules) *Generator {
	return &Generator{rules: rules}
}

func (gen *Generator) Rules() Rules {
	return gen.rules
}

// QuietDirections are the directions a piece can step without capturing.
func (gen *Generator) QuietDirections(p board.Piece) []Direction {
	if p.Kind == board.King {
		return AllDirections()
	}
	return ForwardDirections(p.Side)
}

// CaptureDirections are the directions a piece can jump in.
func (gen *Generator) CaptureDirections(p board.Piece) []Direction {
	if p.Kind == board.King || gen.rules.MenCaptureBackward {
		return AllDirections()
	}
	return ForwardDirections(p.Side)
}

// LegalMoves returns every legal move for side. If any piece of side can
// capture, only capture chains are returned; otherwise all quiet moves are.
// Pieces are visited by row then column, so the order is deterministic. An
// empty result means side has no move.
func (gen *Generator) LegalMoves(b board.Board, side board.Side) ([]move.Move, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("invalid side %v", side)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	var jumps, quiet []move.Move
	for _, from := range b.Pieces(side) {
		piece, _ := b.Occupant(from)
		caps, err := gen.CaptureChains(b, from, piece)
		if err != nil {
			return nil, err
		}
		if len(caps) > 0 {
			jumps = append(jumps, caps...)
			continue
		}
		// Quiet moves are discarded below once any jump exists.
		if len(jumps) == 0 {
			quiet = append(quiet, gen.quietMoves(b, from, piece)...)
		}
	}
	log.Debug().Int("jumps", len(jumps)).Int("quiet", len(quiet)).
		Str("side", side.String()).Msg("generated-moves")
	if len(jumps) > 0 {
		return jumps, nil
	}
	if quiet == nil {
		quiet = []move.Move{}
	}
	return quiet, nil
}

// QuietMoves lists the non-capturing steps available to the piece on from,
// ignoring the forced-capture rule.
func (gen *Generator) QuietMoves(b board.Board, from board.Coord) ([]move.Move, error) {
	if !board.InBounds(from) {
		return nil, fmt.Errorf("%w: %v", board.ErrInvalidCoordinate, from)
	}
	piece, ok := b.Occupant(from)
	if !ok {
		return []move.Move{}, nil
	}
	return gen.quietMoves(b, from, piece), nil
}

func (gen *Generator) quietMoves(b board.Board, from board.Coord, piece board.Piece) []move.Move {
	moves := []move.Move{}
	for _, d := range gen.QuietDirections(piece) {
		to := from.Add(d.DR, d.DC)
		if !board.InBounds(to) || !b.Playable(to) {
			continue
		}
		if _, occupied := b.Occupant(to); occupied {
			continue
		}
		m := move.NewQuietMove(from, to)
		m.Promotes = piece.Kind == board.Man && piece.Promote(to).Kind == board.King
		moves = append(moves, m)
	}
	return moves
}

var defaultGenerator = NewGenerator(DefaultRules)

// LegalMoves generates with DefaultRules.
func LegalMoves(b board.Board, side board.Side) ([]move.Move, error) {
	return defaultGenerator.LegalMoves(b, side)
}
