package analyst

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/types"
)

// Pipeline analyzes one ticker end to end.
type Pipeline func(ctx context.Context, ticker string) (types.Signal, error)

// Runner fans tickers out over a bounded pool of workers. Each ticker runs
// on a single worker; failed tickers are logged and left out of the result.
type Runner struct {
	cap int
}

func NewRunner(workerCap int) *Runner {
	if workerCap < 1 {
		workerCap = 1
	}
	return &Runner{cap: workerCap}
}

// Workers is the pool size used for n tickers.
func (r *Runner) Workers(n int) int {
	return min(r.cap, n)
}

func (r *Runner) Run(ctx context.Context, tickers []string, pipeline Pipeline) map[string]types.Signal {
	tickers = dedupe(tickers)
	results := make(map[string]types.Signal, len(tickers))
	if len(tickers) == 0 {
		return results
	}

	jobs := make(chan string, len(tickers))
	for _, t := range tickers {
		jobs <- t
	}
	close(jobs)

	var mu sync.Mutex
	var g errgroup.Group
	for w := 0; w < r.Workers(len(tickers)); w++ {
		g.Go(func() error {
			for ticker := range jobs {
				sig, err := runOne(ctx, ticker, pipeline)
				if err != nil {
					logger.ErrorWithErr(ctx, "Ticker analysis failed, dropping from results", err, "ticker", ticker)
					continue
				}
				mu.Lock()
				results[ticker] = sig
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runOne(ctx context.Context, ticker string, pipeline Pipeline) (sig types.Signal, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic for %s: %v", ticker, r)
		}
	}()
	return pipeline(ctx, ticker)
}

func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
