// Package planner picks a single move for a side. The policy is greedy and
// one ply deep: the longest capture chain wins, and ties go to the move the
// generator found first.
package planner

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
	"github.com/Qoopi/checkers/movegen"
)

// Planner chooses moves out of a generated list.
type Planner interface {
	// PlanMove generates and picks a move for side. It returns nil with no
	// error when side has no legal move.
	PlanMove(b board.Board, side board.Side) (*move.Move, error)
	// BestMove picks the preferred move out of moves.
	BestMove(moves []move.Move) *move.Move
	// TopMoves ranks moves and returns the first n.
	TopMoves(moves []move.Move, n int) []move.Move
}

// GreedyPlanner prefers longer capture chains and does no look-ahead.
type GreedyPlanner struct {
	gen *movegen.Generator
}

func NewGreedyPlanner(gen *movegen.Generator) *GreedyPlanner {
	return &GreedyPlanner{gen: gen}
}

func (p *GreedyPlanner) Generator() *movegen.Generator {
	return p.gen
}

func (p *GreedyPlanner) PlanMove(b board.Board, side board.Side) (*move.Move, error) {
	moves, err := p.gen.LegalMoves(b, side)
	if err != nil {
		return nil, err
	}
	best := p.BestMove(moves)
	if best == nil {
		log.Debug().Str("side", side.String()).Msg("no-legal-move")
		return nil, nil
	}
	log.Debug().Str("side", side.String()).Str("move", best.String()).
		Int("candidates", len(moves)).Msg("planned-move")
	return best, nil
}

// BestMove returns the first move with the most captures, or nil for an
// empty list.
func (p *GreedyPlanner) BestMove(moves []move.Move) *move.Move {
	if len(moves) == 0 {
		return nil
	}
	best := lo.MaxBy(moves, func(a, b move.Move) bool {
		return len(a.Captures) > len(b.Captures)
	})
	return &best
}

// TopMoves sorts a copy of moves by capture count, longest first, keeping
// generator order among equals.
func (p *GreedyPlanner) TopMoves(moves []move.Move, n int) []move.Move {
	sorted := make([]move.Move, len(moves))
	copy(sorted, moves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Captures) > len(sorted[j].Captures)
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

var defaultPlanner = NewGreedyPlanner(movegen.NewGenerator(movegen.DefaultRules))

// PlanMove plans with the default rules.
func PlanMove(b board.Board, side board.Side) (*move.Move, error) {
	return defaultPlanner.PlanMove(b, side)
}
