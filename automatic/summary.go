package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"gopkg.in/yaml.v3"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/stats"
)

// Summary aggregates a batch of self-play games.
type Summary struct {
	Games    int `yaml:"games"`
	NearWins int `yaml:"near-wins"`
	FarWins  int `yaml:"far-wins"`
	Draws    int `yaml:"draws"`
	// NearScore counts a win as 1 and a draw as 0.5, averaged over games.
	NearScore   float64    `yaml:"near-score"`
	NearScoreCI [2]float64 `yaml:"near-score-ci95,flow"`

	MeanPlies    float64 `yaml:"mean-plies"`
	StdevPlies   float64 `yaml:"stdev-plies"`
	MedianPlies  float64 `yaml:"median-plies"`
	P90Plies     float64 `yaml:"p90-plies"`
	MeanCaptures float64 `yaml:"mean-captures"`
	Promotions   int     `yaml:"promotions"`

	plies []float64
}

// Summarize computes the summary of a set of results.
func Summarize(results []GameResult) Summary {
	s := Summary{Games: len(results)}
	var score, plies, captures stats.Statistic
	for _, r := range results {
		side, won := winnerSide(r.Winner)
		switch {
		case !won:
			s.Draws++
			score.Push(0.5)
		case side == board.Near:
			s.NearWins++
			score.Push(1)
		default:
			s.FarWins++
			score.Push(0)
		}
		plies.Push(float64(r.Plies))
		captures.Push(float64(r.Captures))
		s.Promotions += r.Promotions
		s.plies = append(s.plies, float64(r.Plies))
	}
	s.NearScore = score.Mean()
	s.NearScoreCI[0], s.NearScoreCI[1] = score.ConfidenceInterval(95)
	s.MeanPlies = plies.Mean()
	s.StdevPlies = plies.Stdev()
	s.MeanCaptures = captures.Mean()
	q := stats.Quantiles(s.plies, 0.5, 0.9)
	s.MedianPlies, s.P90Plies = q[0], q[1]
	return s
}

// YAML renders the summary for saving or printing.
func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games)
	if s.Games == 0 {
		return sb.String()
	}
	pct := func(n int) float64 { return 100 * float64(n) / float64(s.Games) }
	fmt.Fprintf(&sb, "near wins: %d (%.2f%%)\n", s.NearWins, pct(s.NearWins))
	fmt.Fprintf(&sb, "far wins: %d (%.2f%%)\n", s.FarWins, pct(s.FarWins))
	fmt.Fprintf(&sb, "draws: %d (%.2f%%)\n", s.Draws, pct(s.Draws))
	fmt.Fprintf(&sb, "near score: %.3f (95%% CI %.3f to %.3f)\n",
		s.NearScore, s.NearScoreCI[0], s.NearScoreCI[1])
	fmt.Fprintf(&sb, "plies: mean %.2f  stdev %.2f  median %.1f  p90 %.1f\n",
		s.MeanPlies, s.StdevPlies, s.MedianPlies, s.P90Plies)
	fmt.Fprintf(&sb, "captures per game: %.2f  promotions: %d\n", s.MeanCaptures, s.Promotions)
	return sb.String()
}

// PliesHistogram draws the distribution of game lengths.
func (s Summary) PliesHistogram(w io.Writer, bins int) error {
	if len(s.plies) == 0 {
		return nil
	}
	h := histogram.Hist(bins, s.plies)
	return histogram.Fprint(w, h, histogram.Linear(40))
}

// AnalyzeLogFile reads back a game log written by StartCompVCompGames and
// summarizes it.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,plies,winner,captures,promotions
	var results []GameResult
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			continue
		}
		res, err := parseRecord(record)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	s := Summarize(results)
	return &s, nil
}

func parseRecord(record []string) (GameResult, error) {
	if len(record) != 5 {
		return GameResult{}, fmt.Errorf("expected 5 fields, got %d", len(record))
	}
	nums := make([]int, 3)
	for i, f := range []string{record[1], record[3], record[4]} {
		n, err := strconv.Atoi(f)
		if err != nil {
			return GameResult{}, err
		}
		nums[i] = n
	}
	return GameResult{
		Uid:        record[0],
		Plies:      nums[0],
		Winner:     record[2],
		Captures:   nums[1],
		Promotions: nums[2],
	}, nil
}
