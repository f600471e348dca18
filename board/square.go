package board

import (
	"fmt"
	"strings"
)

// Side is one of the two players. Near pieces advance toward row 0 and Far
// pieces advance toward row 7. On the page these are "you" and "me".
type Side uint8

const (
	Near Side = iota
	Far
)

func (s Side) String() string {
	switch s {
	case Near:
		return "near"
	case Far:
		return "far"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// Valid reports whether s is one of the two sides.
func (s Side) Valid() bool {
	return s == Near || s == Far
}

func (s Side) Opponent() Side {
	if s == Near {
		return Far
	}
	return Near
}

// Forward is the row delta of a forward step for this side.
func (s Side) Forward() int {
	if s == Near {
		return -1
	}
	return 1
}

// PromotionRow is the farthest row for the side; a man landing there is
// crowned.
func (s Side) PromotionRow() int {
	if s == Near {
		return 0
	}
	return Size - 1
}

// ParseSide accepts the engine names as well as the page names ("you" is
// Near, "me" is Far).
func ParseSide(str string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "near", "you", "n":
		return Near, nil
	case "far", "me", "f":
		return Far, nil
	}
	return Near, fmt.Errorf("unknown side %q", str)
}

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal %v", s)
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Kind is the rank of a piece.
type Kind uint8

const (
	Man Kind = iota
	King
)

func (k Kind) String() string {
	if k == King {
		return "king"
	}
	return "man"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "man":
		*k = Man
	case "king":
		*k = King
	default:
		return fmt.Errorf("unknown piece kind %q", string(text))
	}
	return nil
}

// A Piece is owned by exactly one square of a board.
type Piece struct {
	Side Side `json:"side"`
	Kind Kind `json:"kind"`
}

// Promote returns the piece as it stands after landing on at. A man on its
// side's promotion row becomes a king; everything else is unchanged.
func (p Piece) Promote(at Coord) Piece {
	if p.Kind == Man && at.Row == p.Side.PromotionRow() {
		p.Kind = King
	}
	return p
}

// Rune is the single-character form used by text rows and position strings.
func (p Piece) Rune() rune {
	switch {
	case p.Side == Near && p.Kind == Man:
		return 'n'
	case p.Side == Near && p.Kind == King:
		return 'N'
	case p.Side == Far && p.Kind == Man:
		return 'f'
	}
	return 'F'
}

func (p Piece) String() string {
	return p.Side.String() + " " + p.Kind.String()
}

// PieceFromRune is the inverse of Piece.Rune.
func PieceFromRune(r rune) (Piece, bool) {
	switch r {
	case 'n':
		return Piece{Near, Man}, true
	case 'N':
		return Piece{Near, King}, true
	case 'f':
		return Piece{Far, Man}, true
	case 'F':
		return Piece{Far, King}, true
	}
	return Piece{}, false
}

// A Square is either empty or holds exactly one piece. The zero value is
// Empty.
type Square struct {
	piece    Piece
	occupied bool
}

// Empty is the empty square.
var Empty = Square{}

// Occupied returns a square holding p.
func Occupied(p Piece) Square {
	return Square{piece: p, occupied: true}
}

func (s Square) Piece() (Piece, bool) {
	return s.piece, s.occupied
}

func (s Square) IsEmpty() bool {
	return !s.occupied
}

func (s Square) String() string {
	if !s.occupied {
		return "<empty>"
	}
	return "<" + s.piece.String() + ">"
}
