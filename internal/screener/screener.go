package screener

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"crypto-screenerv1/internal/logger"
	"crypto-screenerv1/internal/metrics"
	"crypto-screenerv1/internal/model"
)

// Config holds one screening pass's parameters. Everything is threaded in
// explicitly — no package-level state.
type Config struct {
	Timeframe   model.Timeframe
	Limit       int      // candles per symbol
	Lookback    int      // support/resistance window
	Concurrency int      // worker pool size; 1 = sequential
	Universe    []string // ordered symbols, exclusions already applied
}

// Progress is reported once per completed symbol, in completion order.
type Progress struct {
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Symbol  string `json:"symbol"`
	Bullish bool   `json:"bullish"`
}

// Screener runs the universe loop: fetch → indicators → rule per symbol,
// then ranks the bullish subset by percent change.
type Screener struct {
	source model.CandleSource
	cfg    Config
	prom   *metrics.Metrics // optional

	// OnProgress, when set, is invoked after each symbol completes.
	OnProgress func(Progress)
}

// New creates a Screener over the given candle source.
func New(source model.CandleSource, cfg Config, prom *metrics.Metrics) *Screener {
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Screener{source: source, cfg: cfg, prom: prom}
}

// outcome is the result-or-failure value of one symbol evaluation. The loop
// aggregates successes and counts failures instead of discarding them.
type outcome struct {
	symbol  string
	result  model.ScreeningResult
	bullish bool
	err     error
}

// Run evaluates the whole universe and returns bullish results sorted
// descending by percent change. Per-symbol fetch failures are counted in
// the stats but never abort the pass.
func (s *Screener) Run(ctx context.Context) ([]model.ScreeningResult, model.ScreenStats) {
	start := time.Now()
	runID := logger.GenerateRunID(string(s.cfg.Timeframe), start)
	total := len(s.cfg.Universe)

	log.Printf("[screener] run %s: %d symbols, tf=%s, limit=%d, workers=%d",
		runID, total, s.cfg.Timeframe, s.cfg.Limit, s.cfg.Concurrency)

	sem := make(chan struct{}, s.cfg.Concurrency)
	outCh := make(chan outcome, total)

	var wg sync.WaitGroup
	for _, symbol := range s.cfg.Universe {
		symbol := symbol
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			outCh <- s.evaluate(ctx, symbol)
		}()
	}
	go func() {
		wg.Wait()
		close(outCh)
	}()

	var results []model.ScreeningResult
	skipped := 0
	done := 0
	for out := range outCh {
		done++
		if out.err != nil {
			skipped++
			log.Printf("[screener] run %s: skip %s: %v", runID, out.symbol, out.err)
		} else if out.bullish {
			results = append(results, out.result)
		}
		if s.OnProgress != nil {
			s.OnProgress(Progress{Done: done, Total: total, Symbol: out.symbol, Bullish: out.bullish})
		}
	}

	// Rank descending by percent change; symbol breaks ties so repeat runs
	// over identical data order identically.
	sort.Slice(results, func(i, j int) bool {
		if results[i].PercentChange != results[j].PercentChange {
			return results[i].PercentChange > results[j].PercentChange
		}
		return results[i].Symbol < results[j].Symbol
	})

	stats := model.ScreenStats{
		RunID:     runID,
		Timeframe: s.cfg.Timeframe,
		Evaluated: total,
		Bullish:   len(results),
		Skipped:   skipped,
		Took:      time.Since(start),
	}

	if s.prom != nil {
		s.prom.ScreenDur.Observe(stats.Took.Seconds())
		s.prom.BullishCount.Set(float64(stats.Bullish))
		s.prom.SymbolsSkipped.Add(float64(skipped))
	}
	log.Printf("[screener] run %s: %d bullish, %d skipped, took %s",
		runID, stats.Bullish, stats.Skipped, stats.Took.Round(time.Millisecond))

	return results, stats
}

// evaluate runs the per-symbol pipeline. Errors are returned as values, not
// raised — the loop decides what to do with them.
func (s *Screener) evaluate(ctx context.Context, symbol string) outcome {
	candles, err := s.source.Fetch(ctx, symbol, s.cfg.Timeframe, s.cfg.Limit)
	if err != nil {
		return outcome{symbol: symbol, err: err}
	}
	res, ok := Evaluate(symbol, candles, s.cfg.Lookback)
	return outcome{symbol: symbol, result: res, bullish: ok}
}
