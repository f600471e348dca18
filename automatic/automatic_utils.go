package automatic

// Data collection for automatic games.

import (
	"context"
	"errors"
	"expvar"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Qoopi/checkers/config"
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// running admits one batch of games at a time.
var running atomic.Bool

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// StartCompVCompGames plays numGames games on the given number of worker
// goroutines and summarizes them. A CSV row per game is written to logw if
// it is not nil. Cancelling ctx stops the run early; the games finished so
// far are still summarized.
func StartCompVCompGames(ctx context.Context, cfg *config.Config, numGames, threads int,
	logw io.Writer) (*Summary, error) {

	if !running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer running.Store(false)
	if threads < 1 {
		threads = 1
	}
	log.Debug().Int("games", numGames).Int("threads", threads).Msg("starting-autoplay")

	CVCCounter.Set(0)
	jobs := make(chan struct{}, 100)
	logChan := make(chan string, 100)
	var mu sync.Mutex
	var results []GameResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 1; i <= numGames; i++ {
			select {
			case jobs <- struct{}{}:
			case <-gctx.Done():
				log.Info().Msg("got-stop-signal")
				return nil
			}
			if i%1000 == 0 {
				log.Info().Int("queued", i).Msg("queued-jobs")
			}
		}
		return nil
	})
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			r := NewGameRunner(logChan, cfg)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for range jobs {
				res, err := r.PlayGame(gctx)
				if err != nil {
					return err
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		if logw != nil {
			io.WriteString(logw, csvHeader)
		}
		for row := range logChan {
			if logw != nil {
				io.WriteString(logw, row)
			}
		}
	}()

	err := g.Wait()
	close(logChan)
	<-logDone
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	log.Info().Int("games", len(results)).Msg("all-games-finished")
	s := Summarize(results)
	return &s, nil
}
