package move

import (
	"fmt"

	"github.com/Qoopi/checkers/board"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Apply carries m out on a copy of b and returns the new position. Every
// jump must cross a then-present enemy piece and land on an empty playable
// square; a man is crowned the moment it lands on its promotion row. The
// caller's board is never modified.
func Apply(b board.Board, m Move) (board.Board, error) {
	piece, ok := b.Occupant(m.From)
	if !ok {
		return b, fmt.Errorf("%w: no piece on %v", ErrReplay, m.From)
	}
	if err := b.Set(m.From, board.Empty); err != nil {
		return b, err
	}
	if !m.IsCapture() {
		if abs(m.To.Row-m.From.Row) != 1 || abs(m.To.Col-m.From.Col) != 1 {
			return b, fmt.Errorf("%w: %v is not a diagonal step", ErrReplay, m)
		}
		if err := land(&b, m.To); err != nil {
			return b, err
		}
		return b, b.Set(m.To, board.Occupied(piece.Promote(m.To)))
	}

	cur := m.From
	for _, mid := range m.Captures {
		if abs(mid.Row-cur.Row) != 1 || abs(mid.Col-cur.Col) != 1 {
			return b, fmt.Errorf("%w: %v is not adjacent to %v", ErrReplay, mid, cur)
		}
		enemy, ok := b.Occupant(mid)
		if !ok || enemy.Side == piece.Side {
			return b, fmt.Errorf("%w: no enemy piece on %v", ErrReplay, mid)
		}
		next := board.Coord{Row: 2*mid.Row - cur.Row, Col: 2*mid.Col - cur.Col}
		if err := land(&b, next); err != nil {
			return b, err
		}
		if err := b.Set(mid, board.Empty); err != nil {
			return b, err
		}
		piece = piece.Promote(next)
		cur = next
	}
	if cur != m.To {
		return b, fmt.Errorf("%w: chain ends on %v, not %v", ErrReplay, cur, m.To)
	}
	return b, b.Set(cur, board.Occupied(piece))
}

func land(b *board.Board, c board.Coord) error {
	if !board.InBounds(c) {
		return fmt.Errorf("%w: %w: %v", ErrReplay, board.ErrInvalidCoordinate, c)
	}
	if !b.Playable(c) {
		return fmt.Errorf("%w: %v is not playable", ErrReplay, c)
	}
	if _, ok := b.Occupant(c); ok {
		return fmt.Errorf("%w: %v is occupied", ErrReplay, c)
	}
	return nil
}
