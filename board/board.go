// Package board holds the checkers board model: coordinates, pieces,
// squares and the 8x8 grid, plus the pure predicates the move generator
// relies on. A Board is a plain value; copying it gives an independent
// snapshot.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the number of rows and columns.
const Size = 8

var (
	// ErrInvalidCoordinate is returned when a square outside the 8x8 grid is
	// accessed.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidBoardShape is returned for grids that are not 8x8 or that
	// hold a piece on a non-playable square.
	ErrInvalidBoardShape = errors.New("invalid board shape")
)

// Coord is a (row, col) pair. Row 0 is the Far side's back row.
type Coord struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d%d", c.Row, c.Col)
}

// Add offsets c by (dr, dc).
func (c Coord) Add(dr, dc int) Coord {
	return Coord{Row: c.Row + dr, Col: c.Col + dc}
}

// InBounds is true iff both components lie in [0,7].
func InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

// ParseCoord reads "34", "3,4" or "(3,4)".
func ParseCoord(s string) (Coord, error) {
	s = strings.Trim(strings.TrimSpace(s), "()")
	var c Coord
	var err error
	if strings.Contains(s, ",") {
		_, err = fmt.Sscanf(s, "%d,%d", &c.Row, &c.Col)
	} else if len(s) == 2 {
		c = Coord{Row: int(s[0] - '0'), Col: int(s[1] - '0')}
	} else {
		err = errors.New("expected two digits")
	}
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q: %v", ErrInvalidCoordinate, s, err)
	}
	if !InBounds(c) {
		return Coord{}, fmt.Errorf("%w: %v", ErrInvalidCoordinate, c)
	}
	return c, nil
}

// Parity selects which colour of square is playable. Live boards disagree
// on the convention, so it is carried by every Board rather than fixed.
type Parity uint8

const (
	// OddParity makes squares with (row+col) odd playable.
	OddParity Parity = iota
	// EvenParity makes squares with (row+col) even playable.
	EvenParity
)

func (p Parity) String() string {
	if p == EvenParity {
		return "even"
	}
	return "odd"
}

func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "odd", "1", "":
		return OddParity, nil
	case "even", "0":
		return EvenParity, nil
	}
	return OddParity, fmt.Errorf("unknown parity %q", s)
}

// Playable reports whether pieces may stand on c under this convention.
func (p Parity) Playable(c Coord) bool {
	odd := (c.Row+c.Col)%2 == 1
	if p == EvenParity {
		return !odd
	}
	return odd
}

// Board is an 8x8 grid of squares. Non-playable squares are always empty.
type Board struct {
	squares [Size][Size]Square
	parity  Parity
}

// New returns an empty board using parity p.
func New(p Parity) Board {
	return Board{parity: p}
}

func (b Board) Parity() Parity {
	return b.parity
}

func (b Board) Playable(c Coord) bool {
	return b.parity.Playable(c)
}

// At returns the square at c. Callers that cannot guarantee c is in bounds
// get ErrInvalidCoordinate.
func (b Board) At(c Coord) (Square, error) {
	if !InBounds(c) {
		return Empty, fmt.Errorf("%w: %v", ErrInvalidCoordinate, c)
	}
	return b.squares[c.Row][c.Col], nil
}

// Occupant returns the piece at c. It is false for empty squares and for
// coordinates off the board.
func (b Board) Occupant(c Coord) (Piece, bool) {
	if !InBounds(c) {
		return Piece{}, false
	}
	return b.squares[c.Row][c.Col].Piece()
}

// Set places sq at c. Pieces can only be put on playable squares.
func (b *Board) Set(c Coord, sq Square) error {
	if !InBounds(c) {
		return fmt.Errorf("%w: %v", ErrInvalidCoordinate, c)
	}
	if !sq.IsEmpty() && !b.parity.Playable(c) {
		return fmt.Errorf("%w: piece on non-playable square %v", ErrInvalidBoardShape, c)
	}
	b.squares[c.Row][c.Col] = sq
	return nil
}

// Validate checks the board invariant: no piece sits on a non-playable
// square.
func (b Board) Validate() error {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.squares[r][c].occupied && !b.parity.Playable(Coord{r, c}) {
				return fmt.Errorf("%w: piece on non-playable square %v",
					ErrInvalidBoardShape, Coord{r, c})
			}
		}
	}
	return nil
}

// FromGrid builds a board out of a producer-supplied grid, which must be
// exactly 8x8 and respect the parity convention.
func FromGrid(grid [][]Square, p Parity) (Board, error) {
	b := New(p)
	if len(grid) != Size {
		return b, fmt.Errorf("%w: %d rows", ErrInvalidBoardShape, len(grid))
	}
	for r, row := range grid {
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d squares", ErrInvalidBoardShape, r, len(row))
		}
		for c, sq := range row {
			if err := b.Set(Coord{r, c}, sq); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

// Count returns how many pieces side has on the board.
func (b Board) Count(side Side) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p, ok := b.squares[r][c].Piece(); ok && p.Side == side {
				n++
			}
		}
	}
	return n
}

// Pieces lists the squares held by side, row by row then column by column.
func (b Board) Pieces(side Side) []Coord {
	coords := make([]Coord, 0, 12)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if p, ok := b.squares[r][c].Piece(); ok && p.Side == side {
				coords = append(coords, Coord{r, c})
			}
		}
	}
	return coords
}

// Equals compares two boards square by square, including the parity.
func (b Board) Equals(o Board) bool {
	return b == o
}
