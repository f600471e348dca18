package movegen

import (
	"fmt"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

// jumpKey identifies a single jump within a chain.
type jumpKey struct {
	from, to board.Coord
}

// CaptureChains explores every maximal jump sequence the given piece can
// make starting at origin. Each returned move starts at origin, lists the
// jumped squares in order and ends on the chain's final landing square.
// It returns an empty slice when no immediate capture exists.
//
// The piece is crowned as soon as it lands on its promotion row, and the
// rest of the chain is searched with king directions. b is not modified.
func (gen *Generator) CaptureChains(b board.Board, origin board.Coord, piece board.Piece) ([]move.Move, error) {
	if !board.InBounds(origin) {
		return nil, fmt.Errorf("%w: %v", board.ErrInvalidCoordinate, origin)
	}
	return gen.captureDFS(b, origin, piece, nil)
}

func (gen *Generator) captureDFS(b board.Board, from board.Coord, piece board.Piece,
	used map[jumpKey]struct{}) ([]move.Move, error) {

	moves := []move.Move{}
	for _, d := range gen.CaptureDirections(piece) {
		mid := from.Add(d.DR, d.DC)
		land := from.Add(2*d.DR, 2*d.DC)
		if !board.InBounds(mid) || !board.InBounds(land) || !b.Playable(land) {
			continue
		}
		enemy, ok := b.Occupant(mid)
		if !ok || enemy.Side == piece.Side {
			continue
		}
		if _, occupied := b.Occupant(land); occupied {
			continue
		}
		key := jumpKey{from, land}
		if _, seen := used[key]; seen {
			continue
		}

		// b is a copy; the caller's board stays as it was.
		clone := b
		promoted := piece.Promote(land)
		if err := jump(&clone, from, mid, land, promoted); err != nil {
			return nil, err
		}

		subUsed := make(map[jumpKey]struct{}, len(used)+1)
		for k := range used {
			subUsed[k] = struct{}{}
		}
		subUsed[key] = struct{}{}

		crowned := promoted.Kind != piece.Kind
		cont, err := gen.captureDFS(clone, land, promoted, subUsed)
		if err != nil {
			return nil, err
		}
		if len(cont) == 0 {
			moves = append(moves, move.Move{
				From:     from,
				To:       land,
				Captures: []board.Coord{mid},
				Promotes: crowned,
			})
			continue
		}
		for _, m := range cont {
			captures := make([]board.Coord, 0, len(m.Captures)+1)
			captures = append(captures, mid)
			captures = append(captures, m.Captures...)
			moves = append(moves, move.Move{
				From:     from,
				To:       m.To,
				Captures: captures,
				Promotes: crowned || m.Promotes,
			})
		}
	}
	return moves, nil
}

// jump lifts the piece off from and the enemy off mid, and sets p down on
// land.
func jump(b *board.Board, from, mid, land board.Coord, p board.Piece) error {
	if err := b.Set(from, board.Empty); err != nil {
		return err
	}
	if err := b.Set(mid, board.Empty); err != nil {
		return err
	}
	return b.Set(land, board.Occupied(p))
}
