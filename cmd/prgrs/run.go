package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sigman78/prgrs"
	"github.com/sigman78/prgrs/internal/config"
)

// run processes cfg.Count simulated work items on a worker pool and shows
// their completion on a progress bar written to out. Workers hand finished
// item ids over a channel; the bar itself is only touched by this goroutine.
func run(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger, extra ...prgrs.Option) error {
	length, err := cfg.BarLength()
	if err != nil {
		return err
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var lim *rate.Limiter
	if cfg.Rate > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	logger.Debug("starting", "items", cfg.Count, "workers", cfg.Workers, "rate", cfg.Rate, "length", length)

	results := make(chan int, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(results)
		return produce(gctx, pool, lim, cfg.Count, cfg.Delay, results)
	})

	opts := []prgrs.Option{
		prgrs.OptionSetWriter(out),
		prgrs.OptionSetLength(length),
		prgrs.OptionUseCursor(cfg.Cursor),
		prgrs.OptionSetLogger(logger),
	}
	bar := prgrs.New(prgrs.Chan(results), cfg.Count, append(opts, extra...)...)

	done := 0
	for id := range bar.All() {
		done++
		if cfg.LogEvery > 0 && done%cfg.LogEvery == 0 {
			line := fmt.Sprintf("finished item %d (%d/%d)", id, done, cfg.Count)
			if err := bar.WriteLine(line); err != nil {
				_, _ = fmt.Fprintln(out, line)
			}
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// items still in flight when ctx ends are dropped, not finished
	return ctx.Err()
}

// produce submits count items to pool and returns once every submitted item
// has reported on results or given up because ctx ended.
func produce(ctx context.Context, pool *ants.Pool, lim *rate.Limiter, count int, delay time.Duration, results chan<- int) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for i := range count {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			work(ctx, delay)
			select {
			case results <- i:
			case <-ctx.Done():
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit task: %w", err)
		}
	}

	wg.Wait()
	return ctx.Err()
}

// work stands in for a unit of real work.
func work(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
