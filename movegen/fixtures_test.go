package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/Qoopi/checkers/testhelpers"
)

func TestBoardFixtures(t *testing.T) {
	for _, name := range testhelpers.BoardFixtureNames() {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			f, err := testhelpers.LoadBoardFixture(name)
			is.NoErr(err)
			b, err := f.Board()
			is.NoErr(err)
			side, err := f.SideToMove()
			is.NoErr(err)

			gen := NewGenerator(Rules{MenCaptureBackward: f.CaptureBackward()})
			moves, err := gen.LegalMoves(b, side)
			is.NoErr(err)
			is.Equal(len(moves), f.NumMoves)
			checkSound(t, b, side, moves)

			expected, err := f.ExpectedMoves()
			is.NoErr(err)
			if len(expected) == 0 {
				return
			}
			is.Equal(len(expected), len(moves))
			for i := range expected {
				is.True(moves[i].Equals(expected[i]))
				is.Equal(moves[i].Promotes, expected[i].Promotes)
			}
		})
	}
}
