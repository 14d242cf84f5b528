// Command scan runs one screening pass from the terminal and prints the
// ranked bullish listing, optionally followed by the detail view for one
// symbol. It shares the server's config, cache and upstream client.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"crypto-screenerv1/config"
	"crypto-screenerv1/internal/cache"
	"crypto-screenerv1/internal/model"
	"crypto-screenerv1/internal/screener"
	"crypto-screenerv1/pkg/binance"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg := config.Load()
	tfFlag := flag.String("tf", string(cfg.Timeframe), "candle timeframe (15m, 30m, 1h, 4h, 1d)")
	limitFlag := flag.Int("limit", cfg.CandleLimit, "candles per symbol")
	symbolFlag := flag.String("symbol", "", "print the detail view for this symbol after the pass")
	workersFlag := flag.Int("workers", cfg.Concurrency, "concurrent symbol fetches")
	flag.Parse()

	tf, err := model.ParseTimeframe(*tfFlag)
	if err != nil {
		log.Fatalf("[scan] %v", err)
	}

	universe, err := config.LoadUniverse(cfg.UniverseFile)
	if err != nil {
		log.Fatalf("[scan] universe load failed: %v", err)
	}
	symbols := universe.Screenable()

	client := binance.NewClient(binance.Config{
		BaseURL:        cfg.BinanceBaseURL,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	source := cache.NewSource(client, cache.NewMemory(cfg.CacheTTL), nil)

	ctx := context.Background()
	sc := screener.New(source, screener.Config{
		Timeframe:   tf,
		Limit:       *limitFlag,
		Lookback:    cfg.Lookback,
		Concurrency: *workersFlag,
		Universe:    symbols,
	}, nil)

	results, stats := sc.Run(ctx)

	fmt.Printf("\n%s — %d/%d bullish (%d skipped, %s)\n\n",
		tf, stats.Bullish, stats.Evaluated, stats.Skipped, stats.Took.Round(time.Millisecond))
	if len(results) == 0 {
		fmt.Println("No bullish setups found.")
	}
	for i, r := range results {
		fmt.Printf("%2d. %s\n", i+1, screener.Summary(r))
	}

	if *symbolFlag == "" {
		return
	}

	rep, err := screener.Detail(ctx, source, *symbolFlag, tf, *limitFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "detail unavailable: %v\n", err)
		os.Exit(1)
	}
	printDetail(rep)
}

func printDetail(rep *model.DetailReport) {
	trend := "weak trend"
	if rep.StrongTrend {
		trend = "strong trend"
	}
	signal := "no buy signal"
	if rep.BuySignal {
		signal = "BUY signal"
	}

	fmt.Printf("\n── %s (%s) ────────────────────────────\n", rep.Symbol, rep.Timeframe)
	fmt.Printf("Price        $%s\n", screener.FormatPrice(rep.Price))
	fmt.Printf("EMA 50       $%s\n", screener.FormatPrice(rep.EMA50))
	fmt.Printf("EMA 200      $%s\n", screener.FormatPrice(rep.EMA200))
	fmt.Printf("MACD         %.6f (signal %.6f)\n", rep.MACD, rep.MACDSignal)
	fmt.Printf("ADX          %.1f (%s)\n", rep.ADX, trend)
	fmt.Printf("Signal       %s\n", signal)
	fmt.Printf("Swing        $%s – $%s\n",
		screener.FormatPrice(rep.SwingLow), screener.FormatPrice(rep.SwingHigh))
	fmt.Printf("Fib 0.618    $%s\n", screener.FormatPrice(rep.FibTarget1))
	fmt.Printf("Fib 1.000    $%s\n", screener.FormatPrice(rep.FibTarget2))
}
