package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
	"github.com/Qoopi/checkers/movegen"
)

func TestHashSideAndParity(t *testing.T) {
	is := is.New(t)
	z := New()
	b := board.StandardBoard(board.OddParity)
	is.True(z.Hash(b, board.Near) != z.Hash(b, board.Far))
	is.Equal(z.Hash(b, board.Near), z.Hash(b, board.Near))
	is.True(z.Hash(b, board.Near) != z.Hash(board.StandardBoard(board.EvenParity), board.Near))
}

func TestAddMoveMatchesHash(t *testing.T) {
	is := is.New(t)
	z := New()
	positions := []board.Board{
		board.StandardBoard(board.OddParity),
		board.MustParseRows([]string{
			"........",
			"....f.f.",
			"...n....",
			"........",
			"........",
			"........",
			"........",
			"........",
		}, board.OddParity),
	}
	for _, b := range positions {
		h := z.Hash(b, board.Near)
		moves, err := movegen.LegalMoves(b, board.Near)
		is.NoErr(err)
		is.True(len(moves) > 0)
		for _, m := range moves {
			after, err := move.Apply(b, m)
			is.NoErr(err)
			is.Equal(z.AddMove(h, b, m), z.Hash(after, board.Far))
		}
	}
}
