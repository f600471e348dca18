package movegen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

// SideMoves holds the legal moves of both sides for one position.
type SideMoves struct {
	Near []move.Move
	Far  []move.Move
}

// LegalMovesBoth generates for Near and Far in parallel. Each goroutine
// gets its own copy of b.
func (gen *Generator) LegalMovesBoth(ctx context.Context, b board.Board) (SideMoves, error) {
	var out SideMoves
	g, ctx := errgroup.WithContext(ctx)
	for _, side := range []board.Side{board.Near, board.Far} {
		side := side
		pos := b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			moves, err := gen.LegalMoves(pos, side)
			if err != nil {
				return err
			}
			if side == board.Near {
				out.Near = moves
			} else {
				out.Far = moves
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SideMoves{}, err
	}
	return out, nil
}

// Mobility is the number of legal moves for Near minus the number for Far.
func (gen *Generator) Mobility(ctx context.Context, b board.Board) (int, error) {
	sm, err := gen.LegalMovesBoth(ctx, b)
	if err != nil {
		return 0, err
	}
	return len(sm.Near) - len(sm.Far), nil
}
