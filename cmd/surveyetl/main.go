// Command surveyetl runs one survey export through the pipeline described
// by a JSON config file: tokenize, decode against the declared schema,
// print per-question summaries, and optionally load the flattened table
// into the configured storage backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"surveyetl/internal/config"
	"surveyetl/internal/etl"
	"surveyetl/internal/metrics"
	"surveyetl/internal/metrics/datadog"
	"surveyetl/internal/metrics/prompush"
	"surveyetl/internal/summary"

	// register all backends with the storage factory.
	_ "surveyetl/internal/storage/all"
)

func main() {
	var (
		cfgPath   string
		noSummary bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/sample.json", "pipeline config JSON path")
	flag.BoolVar(&noSummary, "no-summary", false, "skip printing per-question summaries")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	installMetrics(p, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("pipeline: source=%s parser=%s storage=%s table=%s",
			p.Source.Kind, p.Parser.Kind, p.Storage.Kind, p.Storage.DB.Table)
	}

	res, err := etl.Run(ctx, p)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if !noSummary {
		fmt.Print(summary.RenderText(res.Summaries))
	}

	log.Printf("done: ingested=%d duplicates=%d inserted=%d elapsed=%s",
		res.Ingested, res.Duplicates, res.Inserted, time.Since(start).Truncate(time.Millisecond))
}

// installMetrics picks a metrics backend from the config, with env-variable
// overrides (12-factor style): METRICS_BACKEND, PUSHGATEWAY_URL, DOGSTATSD_ADDR.
func installMetrics(p config.Pipeline, verbose bool) {
	backendName := os.Getenv("METRICS_BACKEND")
	if backendName == "" {
		backendName = p.Metrics.Kind
	}

	job := p.Metrics.Job
	if job == "" {
		job = p.Survey.Name
	}

	switch backendName {
	case "prompush", "pushgateway":
		gwURL := os.Getenv("PUSHGATEWAY_URL")
		if gwURL == "" {
			gwURL = p.Metrics.GatewayURL
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		if verbose {
			log.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, job)
		}
		metrics.SetBackend(b)

	case "datadog":
		addr := os.Getenv("DOGSTATSD_ADDR")
		if addr == "" {
			addr = p.Metrics.Addr
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: addr, Namespace: p.Metrics.Namespace})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		if verbose {
			log.Printf("metrics: backend=datadog addr=%s", addr)
		}
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
