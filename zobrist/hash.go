package zobrist

import (
	"lukechampine.com/frand"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

const bignum = 1<<63 - 2

// number of distinct piece values: side x kind
const numPieceKinds = 4

// Zobrist hashes checkers positions.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	farToMove uint64
	posTable  [board.Size * board.Size][numPieceKinds]uint64
	oddParity uint64
}

func (z *Zobrist) Initialize() {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.farToMove = frand.Uint64n(bignum) + 1
	z.oddParity = frand.Uint64n(bignum) + 1
}

// New returns an initialized hasher.
func New() *Zobrist {
	z := &Zobrist{}
	z.Initialize()
	return z
}

func pieceIdx(p board.Piece) int {
	return int(p.Side)*2 + int(p.Kind)
}

func (z *Zobrist) square(c board.Coord, p board.Piece) uint64 {
	return z.posTable[c.Row*board.Size+c.Col][pieceIdx(p)]
}

// Hash hashes the board together with the side to move.
func (z *Zobrist) Hash(b board.Board, toMove board.Side) uint64 {
	key := uint64(0)
	for _, side := range []board.Side{board.Near, board.Far} {
		for _, c := range b.Pieces(side) {
			p, _ := b.Occupant(c)
			key ^= z.square(c, p)
		}
	}
	if toMove == board.Far {
		key ^= z.farToMove
	}
	if b.Parity() == board.OddParity {
		key ^= z.oddParity
	}
	return key
}

// AddMove updates key for m played on b, where b is the position before
// the move. The side to move flips.
func (z *Zobrist) AddMove(key uint64, b board.Board, m move.Move) uint64 {
	piece, ok := b.Occupant(m.From)
	if !ok {
		return key
	}
	key ^= z.square(m.From, piece)
	for _, c := range m.Captures {
		if captured, ok := b.Occupant(c); ok {
			key ^= z.square(c, captured)
		}
	}
	for _, l := range m.Landings() {
		piece = piece.Promote(l)
	}
	key ^= z.square(m.To, piece)
	key ^= z.farToMove
	return key
}
