// Command benchmark drives repeated procurement runs against an
// in-process platform and reports latency and outcome statistics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/procgo-dev/procgo"
	"github.com/procgo-dev/procgo/internal/orchestrator"
	"github.com/procgo-dev/procgo/pkg/config"
)

type runResult struct {
	Status   orchestrator.Status
	Duration time.Duration
}

type report struct {
	Runs        int     `json:"runs"`
	Concurrency int     `json:"concurrency"`
	Success     int     `json:"success"`
	Degraded    int     `json:"degraded"`
	Errors      int     `json:"errors"`
	TotalSec    float64 `json:"total_seconds"`
	RunsPerSec  float64 `json:"runs_per_second"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	P99Ms       float64 `json:"p99_ms"`
}

func main() {
	var (
		configFile  = flag.String("config", "", "configuration file (YAML)")
		request     = flag.String("request", "an FPV racing drone", "procurement request text")
		runs        = flag.Int("runs", 100, "number of procurement runs")
		concurrency = flag.Int("concurrency", 8, "concurrent runs")
		deadline    = flag.Int("deadline", 14, "delivery deadline in days")
		destination = flag.String("destination", "EU", "destination region")
		timeout     = flag.Duration("timeout", 5*time.Minute, "overall benchmark timeout")
		jsonOut     = flag.Bool("json", false, "emit the report as JSON")
	)
	flag.Parse()

	if err := run(*configFile, *request, *destination, *runs, *concurrency, *deadline, *timeout, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, request, destination string, runs, concurrency, deadline int, timeout time.Duration, jsonOut bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	// Benchmarks never call a real model.
	cfg.OpenAIKey = ""

	p, err := procgo.New(cfg)
	if err != nil {
		return err
	}
	defer p.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req := orchestrator.Request{
		Text:              request,
		DeadlineDays:      deadline,
		DestinationRegion: destination,
	}

	results := make([]runResult, runs)
	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				t0 := time.Now()
				res := p.Procure(ctx, req)
				results[i] = runResult{Status: res.Status, Duration: time.Since(t0)}
			}
		}()
	}
	for i := 0; i < runs; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)

	rep := summarize(results, concurrency, elapsed)
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rep)
	}
	printReport(rep)
	return nil
}

func summarize(results []runResult, concurrency int, elapsed time.Duration) report {
	rep := report{
		Runs:        len(results),
		Concurrency: concurrency,
		TotalSec:    elapsed.Seconds(),
	}
	if elapsed > 0 {
		rep.RunsPerSec = float64(len(results)) / elapsed.Seconds()
	}

	durations := make([]time.Duration, 0, len(results))
	for _, r := range results {
		durations = append(durations, r.Duration)
		switch r.Status {
		case orchestrator.StatusSuccess:
			rep.Success++
		case orchestrator.StatusDegraded:
			rep.Degraded++
		default:
			rep.Errors++
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	rep.P50Ms = percentileMs(durations, 0.50)
	rep.P95Ms = percentileMs(durations, 0.95)
	rep.P99Ms = percentileMs(durations, 0.99)
	return rep
}

func percentileMs(sorted []time.Duration, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return float64(sorted[idx].Microseconds()) / 1000.0
}

func printReport(r report) {
	fmt.Printf("runs:        %d (concurrency %d)\n", r.Runs, r.Concurrency)
	fmt.Printf("outcomes:    %d success, %d degraded, %d error\n", r.Success, r.Degraded, r.Errors)
	fmt.Printf("throughput:  %.1f runs/s over %.2fs\n", r.RunsPerSec, r.TotalSec)
	fmt.Printf("latency:     p50 %.1fms  p95 %.1fms  p99 %.1fms\n", r.P50Ms, r.P95Ms, r.P99Ms)
}
