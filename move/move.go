package move

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Qoopi/checkers/board"
)

// ErrReplay is returned when a move cannot be carried out on a board.
var ErrReplay = errors.New("move does not replay on board")

// Move is a single turn: the piece on From ends on To. Captures lists the
// jumped enemy squares in the order they were taken, and is empty for a
// quiet move.
type Move struct {
	From     board.Coord   `json:"from"`
	To       board.Coord   `json:"to"`
	Captures []board.Coord `json:"captures"`
	// Promotes is set when a man was crowned during the move.
	Promotes bool `json:"promotes,omitempty"`
}

var reNotation *regexp.Regexp

func init() {
	reNotation = regexp.MustCompile(`^(?P<from>[0-7]{2})\s*(?P<sep>[-x])\s*(?P<to>[0-7]{2})\+?$`)
}

// NewQuietMove is a one-step move with no capture.
func NewQuietMove(from, to board.Coord) Move {
	return Move{From: from, To: to, Captures: []board.Coord{}}
}

// IsCapture is true for a chain of one or more jumps.
func (m Move) IsCapture() bool {
	return len(m.Captures) > 0
}

// String gives the short notation, "52-43" for a quiet move and "54x36"
// for a capture chain, followed by the jumped squares when there is more
// than one. A trailing + marks a crowning move.
func (m Move) String() string {
	var s string
	if !m.IsCapture() {
		s = fmt.Sprintf("%v-%v", m.From, m.To)
	} else {
		s = fmt.Sprintf("%vx%v", m.From, m.To)
	}
	if len(m.Captures) > 1 {
		caps := make([]string, len(m.Captures))
		for i, c := range m.Captures {
			caps[i] = c.String()
		}
		s += " [" + strings.Join(caps, " ") + "]"
	}
	if m.Promotes {
		s += "+"
	}
	return s
}

// ShortDescription is a description for logging or display.
func (m Move) ShortDescription() string {
	if !m.IsCapture() {
		return fmt.Sprintf("%v to %v", m.From, m.To)
	}
	return fmt.Sprintf("%v to %v, %d captured", m.From, m.To, len(m.Captures))
}

// FromNotation reads "52-43" or "54x36" into the endpoints of a move and
// whether it is a capture. The captured squares can only be recovered by
// matching against generated moves.
func FromNotation(s string) (from, to board.Coord, capture bool, err error) {
	matches := reNotation.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return from, to, false, fmt.Errorf("cannot parse move %q", s)
	}
	from, err = board.ParseCoord(matches[reNotation.SubexpIndex("from")])
	if err != nil {
		return
	}
	to, err = board.ParseCoord(matches[reNotation.SubexpIndex("to")])
	if err != nil {
		return
	}
	capture = matches[reNotation.SubexpIndex("sep")] == "x"
	return
}

// Equals compares moves structurally. Promotes is derived from the board and
// is not part of the comparison.
func (m Move) Equals(o Move) bool {
	if m.From != o.From || m.To != o.To || len(m.Captures) != len(o.Captures) {
		return false
	}
	for i := range m.Captures {
		if m.Captures[i] != o.Captures[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of m that shares no memory with it.
func (m Move) Clone() Move {
	m.Captures = append(make([]board.Coord, 0, len(m.Captures)), m.Captures...)
	return m
}

// Landings returns the square the piece stands on after each jump. The last
// entry equals To for a well-formed chain. Quiet moves land on To.
func (m Move) Landings() []board.Coord {
	if !m.IsCapture() {
		return []board.Coord{m.To}
	}
	landings := make([]board.Coord, len(m.Captures))
	cur := m.From
	for i, mid := range m.Captures {
		cur = board.Coord{Row: 2*mid.Row - cur.Row, Col: 2*mid.Col - cur.Col}
		landings[i] = cur
	}
	return landings
}
