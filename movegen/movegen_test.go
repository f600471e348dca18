package movegen

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

func c(r, col int) board.Coord { return board.Coord{Row: r, Col: col} }

func rows(rs ...string) board.Board {
	return board.MustParseRows(rs, board.OddParity)
}

func TestForwardDirections(t *testing.T) {
	is := is.New(t)
	is.Equal(ForwardDirections(board.Near), []Direction{{-1, -1}, {-1, 1}})
	is.Equal(ForwardDirections(board.Far), []Direction{{1, -1}, {1, 1}})
	is.Equal(len(AllDirections()), 4)
}

func TestStandardOpening(t *testing.T) {
	is := is.New(t)
	b := board.StandardBoard(board.OddParity)
	moves, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 7)
	for _, m := range moves {
		is.True(!m.IsCapture())
		is.Equal(m.From.Row, 5)
		is.Equal(m.To.Row, 4)
	}
	is.Equal(moves[0], move.NewQuietMove(c(5, 0), c(4, 1)))

	moves, err = LegalMoves(b, board.Far)
	is.NoErr(err)
	is.Equal(len(moves), 7)
	is.Equal(moves[0], move.NewQuietMove(c(2, 1), c(3, 0)))
}

func TestSingleCaptureIsForced(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		".....f..",
		"....n...",
		"........",
		"........",
		".n......",
		"........",
	)
	moves, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 1)
	is.True(moves[0].Equals(move.Move{From: c(3, 4), To: c(1, 6), Captures: []board.Coord{c(2, 5)}}))
	is.True(!moves[0].Promotes)
}

func TestPromotionEndsWithoutContinuation(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"....f...",
		".....n..",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	moves, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 1)
	is.True(moves[0].Equals(move.Move{From: c(2, 5), To: c(0, 3), Captures: []board.Coord{c(1, 4)}}))
	is.True(moves[0].Promotes)

	after, err := move.Apply(b, moves[0])
	is.NoErr(err)
	p, _ := after.Occupant(c(0, 3))
	is.Equal(p.Kind, board.King)
}

func TestPromotionMidChain(t *testing.T) {
	b := rows(
		"........",
		"....f.f.",
		"...n....",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	want := move.Move{From: c(2, 3), To: c(2, 7), Captures: []board.Coord{c(1, 4), c(1, 6)}}
	for _, rules := range []Rules{DefaultRules, {MenCaptureBackward: false}} {
		is := is.New(t)
		moves, err := NewGenerator(rules).LegalMoves(b, board.Near)
		is.NoErr(err)
		is.Equal(len(moves), 1)
		is.True(moves[0].Equals(want))
		is.True(moves[0].Promotes)
	}
}

func TestManBackwardCapture(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		"........",
		"....f.f.",
		"...n....",
		"........",
		"........",
		"........",
	)
	moves, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 1)
	is.True(moves[0].Equals(move.Move{From: c(4, 3), To: c(4, 7), Captures: []board.Coord{c(3, 4), c(3, 6)}}))

	moves, err = NewGenerator(Rules{MenCaptureBackward: false}).LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 1)
	is.True(moves[0].Equals(move.Move{From: c(4, 3), To: c(2, 5), Captures: []board.Coord{c(3, 4)}}))
}

func TestBranchingChains(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		"........",
		"..f.f...",
		"...N....",
		"........",
		"........",
		"........",
	)
	moves, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 2)
	is.True(moves[0].Equals(move.Move{From: c(4, 3), To: c(2, 1), Captures: []board.Coord{c(3, 2)}}))
	is.True(moves[1].Equals(move.Move{From: c(4, 3), To: c(2, 5), Captures: []board.Coord{c(3, 4)}}))
}

func TestKingLoopTerminates(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		"...f.f..",
		"........",
		"...f.f..",
		"....N...",
		"........",
		"........",
	)
	moves, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 2)
	is.True(moves[0].Equals(move.Move{From: c(5, 4), To: c(5, 4),
		Captures: []board.Coord{c(4, 3), c(2, 3), c(2, 5), c(4, 5)}}))
	is.True(moves[1].Equals(move.Move{From: c(5, 4), To: c(5, 4),
		Captures: []board.Coord{c(4, 5), c(2, 5), c(2, 3), c(4, 3)}}))
	after, err := move.Apply(b, moves[0])
	is.NoErr(err)
	is.Equal(after.Count(board.Far), 0)
}

func TestCaptureChainsDoesNotMutate(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		"...f.f..",
		"........",
		"...f.f..",
		"....N...",
		"........",
		"........",
	)
	before := b
	gen := NewGenerator(DefaultRules)
	_, err := gen.CaptureChains(b, c(5, 4), board.Piece{Side: board.Near, Kind: board.King})
	is.NoErr(err)
	is.True(b.Equals(before))

	_, err = gen.CaptureChains(b, c(8, 4), board.Piece{Side: board.Near, Kind: board.King})
	is.True(errors.Is(err, board.ErrInvalidCoordinate))
}

func TestJump(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		".....f..",
		"....n...",
		"........",
		"........",
		"........",
		"........",
	)
	man := board.Piece{Side: board.Near, Kind: board.Man}
	after := b
	is.NoErr(jump(&after, c(3, 4), c(2, 5), c(1, 6), man))
	_, ok := after.Occupant(c(2, 5))
	is.True(!ok)
	p, ok := after.Occupant(c(1, 6))
	is.True(ok)
	is.Equal(p, man)

	bad := b
	err := jump(&bad, c(3, 4), c(2, 5), c(1, 5), man)
	is.True(errors.Is(err, board.ErrInvalidBoardShape))
	err = jump(&bad, c(3, 4), c(2, 5), c(-1, 6), man)
	is.True(errors.Is(err, board.ErrInvalidCoordinate))
}

func TestNoMoves(t *testing.T) {
	is := is.New(t)
	b := rows(
		".f......",
		"n.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	// The Near man on row 1 is blocked on one side and the edge on the other.
	moves, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(len(moves), 0)
	is.True(moves != nil)

	_, err = LegalMoves(b, board.Side(7))
	is.True(err != nil)
}

func TestQuietMoves(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		"........",
		"....F...",
		"........",
		"........",
		"........",
		"........",
	)
	moves, err := NewGenerator(DefaultRules).QuietMoves(b, c(3, 4))
	is.NoErr(err)
	is.Equal(len(moves), 4)
	is.Equal(moves[0].To, c(2, 3))
	is.Equal(moves[3].To, c(4, 5))

	moves, err = NewGenerator(DefaultRules).QuietMoves(b, c(0, 1))
	is.NoErr(err)
	is.Equal(len(moves), 0)
}

// checkSound verifies the generated moves against the position they came
// from.
func checkSound(t *testing.T, b board.Board, side board.Side, moves []move.Move) {
	t.Helper()
	anyCapture := false
	for _, m := range moves {
		if m.IsCapture() {
			anyCapture = true
		}
	}
	for _, m := range moves {
		p, ok := b.Occupant(m.From)
		if !ok || p.Side != side {
			t.Fatalf("move %v does not start on a %v piece", m, side)
		}
		if !board.InBounds(m.To) || !b.Playable(m.To) {
			t.Fatalf("move %v lands off the playable squares", m)
		}
		if _, occ := b.Occupant(m.To); occ && m.To != m.From {
			t.Fatalf("move %v lands on an occupied square", m)
		}
		if anyCapture && !m.IsCapture() {
			t.Fatalf("quiet move %v returned alongside captures", m)
		}
		for _, jumped := range m.Captures {
			enemy, ok := b.Occupant(jumped)
			if !ok || enemy.Side == side {
				t.Fatalf("move %v jumps %v which holds no enemy", m, jumped)
			}
		}
		landings := m.Landings()
		if landings[len(landings)-1] != m.To {
			t.Fatalf("move %v does not replay onto its destination", m)
		}
		if _, err := move.Apply(b, m); err != nil {
			t.Fatalf("move %v does not replay: %v", m, err)
		}
	}
}

func walk(t *testing.T, gen *Generator, b board.Board, side board.Side, depth int) {
	moves, err := gen.LegalMoves(b, side)
	if err != nil {
		t.Fatal(err)
	}
	checkSound(t, b, side, moves)
	if depth == 0 {
		return
	}
	for _, m := range moves {
		next, err := move.Apply(b, m)
		if err != nil {
			t.Fatal(err)
		}
		walk(t, gen, next, side.Opponent(), depth-1)
	}
}

func TestGeneratedMovesAreSound(t *testing.T) {
	for _, rules := range []Rules{DefaultRules, {MenCaptureBackward: false}} {
		gen := NewGenerator(rules)
		walk(t, gen, board.StandardBoard(board.OddParity), board.Near, 4)
		walk(t, gen, board.StandardBoard(board.EvenParity), board.Far, 3)
	}
}

func TestPerft(t *testing.T) {
	is := is.New(t)
	gen := NewGenerator(DefaultRules)
	b := board.StandardBoard(board.OddParity)
	for depth, want := range []uint64{1, 7, 49, 302, 1469} {
		n, err := gen.Perft(b, board.Near, depth)
		is.NoErr(err)
		is.Equal(n, want)
	}
}

func TestLegalMovesBoth(t *testing.T) {
	is := is.New(t)
	gen := NewGenerator(DefaultRules)
	b := board.StandardBoard(board.OddParity)
	sm, err := gen.LegalMovesBoth(context.Background(), b)
	is.NoErr(err)
	is.Equal(len(sm.Near), 7)
	is.Equal(len(sm.Far), 7)

	mob, err := gen.Mobility(context.Background(), b)
	is.NoErr(err)
	is.Equal(mob, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.LegalMovesBoth(ctx, b)
	is.True(errors.Is(err, context.Canceled))
}

func TestDeterministic(t *testing.T) {
	is := is.New(t)
	b := rows(
		"........",
		"........",
		"...f.f..",
		"........",
		"...f.f..",
		"....N...",
		"........",
		"........",
	)
	m1, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	m2, err := LegalMoves(b, board.Near)
	is.NoErr(err)
	is.Equal(m1, m2)
}
