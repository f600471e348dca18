// Package pagecells turns the cells scraped off a checkers web page into a
// board. The page names each cell image space<r><c> and encodes the piece
// in the image source: "you" pieces are Near, "me" pieces are Far, and the
// suffix 1 or 2 marks a man or a king.
package pagecells

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

const (
	nearMan  = "you1"
	nearKing = "you2"
	farMan   = "me1"
	farKing  = "me2"

	namePrefix = "space"
	numCells   = board.Size * board.Size
)

var errDuplicateCell = errors.New("duplicate cell")

var reCellName = regexp.MustCompile(`^space(\d)(\d)$`)

// Cell is one board image as read off the page.
type Cell struct {
	Name string `json:"name" yaml:"name"`
	Src  string `json:"src" yaml:"src"`
}

// PieceFromSrc recognizes a piece image. Light squares, empty squares and
// decoration report false.
func PieceFromSrc(src string) (board.Piece, bool) {
	s := strings.ToLower(src)
	switch {
	case strings.Contains(s, nearKing):
		return board.Piece{Side: board.Near, Kind: board.King}, true
	case strings.Contains(s, nearMan):
		return board.Piece{Side: board.Near, Kind: board.Man}, true
	case strings.Contains(s, farKing):
		return board.Piece{Side: board.Far, Kind: board.King}, true
	case strings.Contains(s, farMan):
		return board.Piece{Side: board.Far, Kind: board.Man}, true
	}
	return board.Piece{}, false
}

// CoordFromName reads a cell name such as "space34": the prefix followed
// by exactly a row digit and a column digit.
func CoordFromName(name string) (board.Coord, error) {
	m := reCellName.FindStringSubmatch(strings.ToLower(strings.TrimSpace(name)))
	if m == nil {
		return board.Coord{}, fmt.Errorf("%w: cell name %q", board.ErrInvalidCoordinate, name)
	}
	c := board.Coord{Row: int(m[1][0] - '0'), Col: int(m[2][0] - '0')}
	if !board.InBounds(c) {
		return board.Coord{}, fmt.Errorf("%w: cell name %q", board.ErrInvalidCoordinate, name)
	}
	return c, nil
}

// NameFromCoord is the inverse of CoordFromName.
func NameFromCoord(c board.Coord) string {
	return namePrefix + c.String()
}

// CellIndex is the position of c among the page's cell images, which are
// laid out row by row.
func CellIndex(c board.Coord) int {
	return c.Row*board.Size + c.Col
}

// Parse builds a board out of exactly 64 named cells. Pieces found on
// squares that are not playable under parity are rejected.
func Parse(cells []Cell, parity board.Parity) (board.Board, error) {
	b := board.New(parity)
	if len(cells) != numCells {
		return b, fmt.Errorf("%w: %d cells", board.ErrInvalidBoardShape, len(cells))
	}
	seen := make(map[board.Coord]bool, numCells)
	for _, cell := range cells {
		c, err := CoordFromName(cell.Name)
		if err != nil {
			return b, err
		}
		if seen[c] {
			return b, fmt.Errorf("%w: %w: %s", board.ErrInvalidBoardShape, errDuplicateCell, cell.Name)
		}
		seen[c] = true
		if err := place(&b, c, cell.Src); err != nil {
			return b, err
		}
	}
	return b, nil
}

// ParseOrdered builds a board out of the first 64 image sources in page
// order. Extra images after the board are ignored.
func ParseOrdered(srcs []string, parity board.Parity) (board.Board, error) {
	b := board.New(parity)
	if len(srcs) < numCells {
		return b, fmt.Errorf("%w: %d cells", board.ErrInvalidBoardShape, len(srcs))
	}
	for i, src := range srcs[:numCells] {
		c := board.Coord{Row: i / board.Size, Col: i % board.Size}
		if err := place(&b, c, src); err != nil {
			return b, err
		}
	}
	return b, nil
}

func place(b *board.Board, c board.Coord, src string) error {
	p, ok := PieceFromSrc(src)
	if !ok {
		return nil
	}
	return b.Set(c, board.Occupied(p))
}

// Clicks lists the cells a driver clicks to play m on the page: the piece,
// then its destination.
func Clicks(m move.Move) []string {
	return []string{NameFromCoord(m.From), NameFromCoord(m.To)}
}
