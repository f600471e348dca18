package board

import (
	"encoding/json"
	"fmt"
	"strings"
)

func (p Parity) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Parity) UnmarshalText(text []byte) error {
	parsed, err := ParseParity(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseRows builds a board from eight strings of eight characters each.
// 'n'/'N' are Near men/kings, 'f'/'F' are Far men/kings; '.', '-', '_' and
// ' ' are empty.
func ParseRows(rows []string, p Parity) (Board, error) {
	b := New(p)
	if len(rows) != Size {
		return b, fmt.Errorf("%w: %d rows", ErrInvalidBoardShape, len(rows))
	}
	for r, row := range rows {
		runes := []rune(row)
		if len(runes) != Size {
			return b, fmt.Errorf("%w: row %d is %q", ErrInvalidBoardShape, r, row)
		}
		for c, ch := range runes {
			switch ch {
			case '.', '-', '_', ' ':
				continue
			}
			piece, ok := PieceFromRune(ch)
			if !ok {
				return b, fmt.Errorf("%w: unexpected character %q at %v",
					ErrInvalidBoardShape, ch, Coord{r, c})
			}
			if err := b.Set(Coord{r, c}, Occupied(piece)); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

// MustParseRows is ParseRows for fixtures known to be well formed.
func MustParseRows(rows []string, p Parity) Board {
	b, err := ParseRows(rows, p)
	if err != nil {
		panic(err)
	}
	return b
}

// Rows is the inverse of ParseRows, with '.' for every empty square.
func (b Board) Rows() []string {
	rows := make([]string, Size)
	for r := 0; r < Size; r++ {
		var sb strings.Builder
		for c := 0; c < Size; c++ {
			if p, ok := b.squares[r][c].Piece(); ok {
				sb.WriteRune(p.Rune())
			} else {
				sb.WriteByte('.')
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// StandardBoard is the opening position: Far men on the playable squares of
// rows 0-2 and Near men on the playable squares of rows 5-7.
func StandardBoard(p Parity) Board {
	b := New(p)
	for r := 0; r < Size; r++ {
		var side Side
		switch {
		case r <= 2:
			side = Far
		case r >= 5:
			side = Near
		default:
			continue
		}
		for c := 0; c < Size; c++ {
			if p.Playable(Coord{r, c}) {
				b.squares[r][c] = Occupied(Piece{Side: side, Kind: Man})
			}
		}
	}
	return b
}

// ToDisplayText renders the board with row and column labels. Non-playable
// squares are blank.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   0 1 2 3 4 5 6 7\n")
	sb.WriteString("  -----------------\n")
	for r := 0; r < Size; r++ {
		fmt.Fprintf(&sb, "%d|", r)
		for c := 0; c < Size; c++ {
			sq := b.squares[r][c]
			switch {
			case !sq.IsEmpty():
				sb.WriteRune(sq.piece.Rune())
			case b.parity.Playable(Coord{r, c}):
				sb.WriteByte('.')
			default:
				sb.WriteByte(' ')
			}
			if c < Size-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  -----------------\n")
	fmt.Fprintf(&sb, "near: %d  far: %d  parity: %s\n",
		b.Count(Near), b.Count(Far), b.parity)
	return sb.String()
}

type jsonBoard struct {
	Parity Parity   `json:"parity"`
	Rows   []string `json:"rows"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonBoard{Parity: b.parity, Rows: b.Rows()})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var jb jsonBoard
	if err := json.Unmarshal(data, &jb); err != nil {
		return err
	}
	parsed, err := ParseRows(jb.Rows, jb.Parity)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
