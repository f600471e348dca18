package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Qoopi/checkers/cgp"
)

// ToCGP writes the current position, tagged with the game id.
func (g *Game) ToCGP() string {
	ops := map[string]string{cgp.OpGameID: g.uid}
	if !g.gen.Rules().MenCaptureBackward {
		ops[cgp.OpMenCaptureBackward] = "false"
	}
	if g.maxPlies != DefaultMaxPlies {
		ops[cgp.OpMaxPlies] = strconv.Itoa(g.maxPlies)
	}
	return cgp.ToCGP(g.board, g.onturn, ops)
}

// ToDisplayText renders the board with the last few turns beside it.
func (g *Game) ToDisplayText() string {
	bt := strings.Split(strings.TrimRight(g.board.ToDisplayText(), "\n"), "\n")
	hpadding := 3

	notes := []string{fmt.Sprintf("game %s", g.uid)}
	switch g.playing {
	case StatePlaying:
		notes = append(notes, fmt.Sprintf("%s to move", g.onturn))
	case StateWon:
		notes = append(notes, fmt.Sprintf("%s won", g.winner))
	case StateDrawn:
		notes = append(notes, "drawn")
	}
	notes = append(notes, "")
	turns := g.turns
	if len(turns) > len(bt)-len(notes) {
		turns = turns[len(turns)-(len(bt)-len(notes)):]
	}
	for _, t := range turns {
		notes = append(notes, t.String())
	}

	width := 0
	for _, line := range bt {
		width = max(width, len(line))
	}
	var sb strings.Builder
	for i, line := range bt {
		sb.WriteString(line)
		if i < len(notes) && notes[i] != "" {
			sb.WriteString(strings.Repeat(" ", width-len(line)+hpadding))
			sb.WriteString(notes[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
