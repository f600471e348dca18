// Package cgp reads and writes checkers game positions in a compact
// one-line notation:
//
//	1f1f1f1f/f1f1f1f1/1f1f1f1f/8/8/n1n1n1n1/1n1n1n1n/n1n1n1n1 near par odd;gid abc
//
// The first field lists the rows from row 0 to row 7, separated by slashes.
// Digits count empty squares; n, N, f and F are Near and Far men and kings.
// The second field is the side to move. Operations follow, separated by
// semicolons.
package cgp

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Qoopi/checkers/board"
)

// Known opcodes.
const (
	OpParity             = "par"
	OpGameID             = "gid"
	OpMenCaptureBackward = "mcb"
	OpMaxPlies           = "mp"
)

type ParsedCGP struct {
	Board board.Board
	Side  board.Side
	// Opcodes holds every recognized operation with its argument.
	Opcodes map[string]string
}

// GameID is the gid opcode, or an empty string.
func (p *ParsedCGP) GameID() string {
	return p.Opcodes[OpGameID]
}

// MenCaptureBackward reads the mcb opcode. ok is false if it was absent.
func (p *ParsedCGP) MenCaptureBackward() (val bool, ok bool) {
	s, ok := p.Opcodes[OpMenCaptureBackward]
	if !ok {
		return false, false
	}
	val, err := strconv.ParseBool(s)
	return val, err == nil
}

// MaxPlies reads the mp opcode. ok is false if it was absent.
func (p *ParsedCGP) MaxPlies() (val int, ok bool) {
	s, ok := p.Opcodes[OpMaxPlies]
	if !ok {
		return 0, false
	}
	val, err := strconv.Atoi(s)
	return val, err == nil
}

// ParseCGP parses a position string. The parity defaults to odd unless a
// par operation says otherwise.
func ParseCGP(cgpstr string) (*ParsedCGP, error) {
	fields := strings.SplitN(strings.TrimSpace(cgpstr), " ", 3)
	if len(fields) < 2 {
		return nil, errors.New("must have at least 2 space-separated fields")
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != board.Size {
		return nil, fmt.Errorf("%w: %d rows", board.ErrInvalidBoardShape, len(rows))
	}
	side, err := board.ParseSide(fields[1])
	if err != nil {
		return nil, err
	}

	var ops []string
	if len(fields) == 3 {
		ops = strings.Split(fields[2], ";")
	}
	parity := board.OddParity
	opcodes := map[string]string{}
	for _, op := range ops {
		op := strings.TrimSpace(op)
		if len(op) == 0 {
			continue
		}
		opWithParams := strings.SplitN(op, " ", 2)
		if len(opWithParams) != 2 {
			return nil, fmt.Errorf("wrong number of arguments for %s operation", opWithParams[0])
		}
		arg := strings.TrimSpace(opWithParams[1])
		switch opWithParams[0] {
		case OpParity:
			parity, err = board.ParseParity(arg)
			if err != nil {
				return nil, err
			}
		case OpMenCaptureBackward:
			if _, err := strconv.ParseBool(arg); err != nil {
				return nil, fmt.Errorf("bad mcb argument: %w", err)
			}
		case OpMaxPlies:
			if _, err := strconv.Atoi(arg); err != nil {
				return nil, fmt.Errorf("bad mp argument: %w", err)
			}
		case OpGameID:
		default:
			log.Debug().Str("op", opWithParams[0]).Msg("ignoring-unknown-opcode")
			continue
		}
		opcodes[opWithParams[0]] = arg
	}

	textRows := make([]string, len(rows))
	for i, row := range rows {
		textRows[i], err = expandRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	b, err := board.ParseRows(textRows, parity)
	if err != nil {
		return nil, err
	}
	return &ParsedCGP{Board: b, Side: side, Opcodes: opcodes}, nil
}

// expandRow turns a run-length row into eight characters with '.' for
// empty squares.
func expandRow(row string) (string, error) {
	var sb strings.Builder
	lastN := ""
	flush := func() error {
		if lastN == "" {
			return nil
		}
		n, err := strconv.Atoi(lastN)
		if err != nil {
			return err
		}
		sb.WriteString(strings.Repeat(".", n))
		lastN = ""
		return nil
	}
	for _, rn := range row {
		if rn >= '0' && rn <= '9' {
			lastN += string(rn)
			continue
		}
		if err := flush(); err != nil {
			return "", err
		}
		if _, ok := board.PieceFromRune(rn); !ok {
			return "", fmt.Errorf("%w: unexpected character %q", board.ErrInvalidBoardShape, rn)
		}
		sb.WriteRune(rn)
	}
	if err := flush(); err != nil {
		return "", err
	}
	if sb.Len() != board.Size {
		return "", fmt.Errorf("%w: row %q has %d squares", board.ErrInvalidBoardShape, row, sb.Len())
	}
	return sb.String(), nil
}

// ToCGP writes the position. The parity is always written; other opcodes
// are appended in sorted order.
func ToCGP(b board.Board, side board.Side, opcodes map[string]string) string {
	var sb strings.Builder
	for i, row := range b.Rows() {
		if i > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for _, rn := range row {
			if rn == '.' {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteRune(rn)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(side.String())
	sb.WriteString(" " + OpParity + " " + b.Parity().String() + ";")

	keys := make([]string, 0, len(opcodes))
	for k := range opcodes {
		if k != OpParity {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(k + " " + opcodes[k] + ";")
	}
	return sb.String()
}
