// Package testhelpers loads the YAML board fixtures shared by the package
// tests.
package testhelpers

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

//go:embed testdata/boards/*.yaml
var boardFS embed.FS

// ExpectedMove is a move written as two-digit coordinates.
type ExpectedMove struct {
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	Captures []string `yaml:"captures"`
	Promotes bool     `yaml:"promotes"`
}

// BoardFixture is a position with the moves the generator must produce.
type BoardFixture struct {
	Name               string         `yaml:"name"`
	Description        string         `yaml:"description"`
	Parity             string         `yaml:"parity"`
	Side               string         `yaml:"side"`
	MenCaptureBackward *bool          `yaml:"men-capture-backward"`
	Rows               []string       `yaml:"rows"`
	NumMoves           int            `yaml:"num-moves"`
	Expected           []ExpectedMove `yaml:"expected"`
}

// Board builds the fixture's position.
func (f BoardFixture) Board() (board.Board, error) {
	p, err := board.ParseParity(f.Parity)
	if err != nil {
		return board.Board{}, err
	}
	return board.ParseRows(f.Rows, p)
}

func (f BoardFixture) SideToMove() (board.Side, error) {
	return board.ParseSide(f.Side)
}

// CaptureBackward is the fixture's rule setting, defaulting to true.
func (f BoardFixture) CaptureBackward() bool {
	if f.MenCaptureBackward == nil {
		return true
	}
	return *f.MenCaptureBackward
}

// ExpectedMoves converts the expected list into moves.
func (f BoardFixture) ExpectedMoves() ([]move.Move, error) {
	moves := make([]move.Move, 0, len(f.Expected))
	for _, e := range f.Expected {
		from, err := board.ParseCoord(e.From)
		if err != nil {
			return nil, err
		}
		to, err := board.ParseCoord(e.To)
		if err != nil {
			return nil, err
		}
		m := move.Move{From: from, To: to, Captures: []board.Coord{}, Promotes: e.Promotes}
		for _, s := range e.Captures {
			c, err := board.ParseCoord(s)
			if err != nil {
				return nil, err
			}
			m.Captures = append(m.Captures, c)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// LoadBoardFixture reads testdata/boards/<name>.yaml.
func LoadBoardFixture(name string) (BoardFixture, error) {
	var f BoardFixture
	data, err := boardFS.ReadFile(path.Join("testdata/boards", name+".yaml"))
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("fixture %s: %w", name, err)
	}
	if f.Name == "" {
		f.Name = name
	}
	return f, nil
}

// BoardFixtureNames lists the available fixtures in sorted order.
func BoardFixtureNames() []string {
	entries, err := boardFS.ReadDir("testdata/boards")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// MustBoard loads a fixture and returns its board, panicking on error.
func MustBoard(name string) board.Board {
	f, err := LoadBoardFixture(name)
	if err != nil {
		panic(err)
	}
	b, err := f.Board()
	if err != nil {
		panic(err)
	}
	return b
}
