package game

import (
	"fmt"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/move"
)

// Turn is one played move.
type Turn struct {
	Ply  int        `json:"ply"`
	Side board.Side `json:"side"`
	Move move.Move  `json:"move"`
}

func (t Turn) String() string {
	return fmt.Sprintf("%3d. %-4s %s", t.Ply, t.Side, t.Move)
}

// Snapshot is the externally visible state of a game.
type Snapshot struct {
	Uid      string      `json:"uid"`
	Board    board.Board `json:"board"`
	OnTurn   board.Side  `json:"onTurn"`
	Playing  PlayState   `json:"playing"`
	Winner   *board.Side `json:"winner,omitempty"`
	Turns    []Turn      `json:"turns"`
	NumLegal int         `json:"numLegalMoves"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Uid:     g.uid,
		Board:   g.board,
		OnTurn:  g.onturn,
		Playing: g.playing,
		Turns:   g.Turns(),
	}
	if w, ok := g.Winner(); ok {
		s.Winner = &w
	}
	if moves, err := g.LegalMoves(); err == nil {
		s.NumLegal = len(moves)
	}
	return s
}
