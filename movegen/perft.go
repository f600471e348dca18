package movegen

import (
	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

// Perft counts the leaf positions reached after depth plies, with the sides
// alternating. A position where the side to move has no move is a leaf.
func (gen *Generator) Perft(b board.Board, side board.Side, depth int) (uint64, error) {
	if depth <= 0 {
		return 1, nil
	}
	moves, err := gen.LegalMoves(b, side)
	if err != nil {
		return 0, err
	}
	if depth == 1 {
		return uint64(len(moves)), nil
	}
	var nodes uint64
	for _, m := range moves {
		next, err := move.Apply(b, m)
		if err != nil {
			return 0, err
		}
		n, err := gen.Perft(next, side.Opponent(), depth-1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}
