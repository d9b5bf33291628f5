package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/cognicore/lens/internal/backend"
	"github.com/cognicore/lens/pkg/lens"
	"github.com/cognicore/lens/pkg/lens/config"
	"github.com/cognicore/lens/pkg/lens/provider"
	"github.com/cognicore/lens/pkg/lens/snapshot"
	"github.com/cognicore/lens/pkg/lens/snapshot/sqlite"
)

func main() {
	var (
		backendURL = flag.String("backend", "", "Pipeline backend URL (optional; offline without it)")
		apiKey     = flag.String("api-key", "", "Backend API key")
		runID      = flag.String("run", "", "Run ID to load (required)")
		cachePath  = flag.String("cache", "", "Snapshot cache path (optional)")
		configPath = flag.String("config", "", "Config file (optional)")
		lang       = flag.String("lang", "", "Reply language: en or ar (overrides config)")
		question   = flag.String("ask", "", "One-shot question (non-interactive mode)")
	)
	flag.Parse()

	if *runID == "" {
		log.Fatal("--run required")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *lang != "" {
		cfg.Language = *lang
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	ctx := context.Background()

	session, cleanup, err := buildSession(ctx, cfg, *backendURL, *apiKey, *cachePath)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := session.LoadRun(ctx, *runID); err != nil {
		log.Fatal(err)
	}
	reportDegraded(session.Provider().Report())

	// One-shot mode
	if *question != "" {
		executeQuestion(session, *question)
		return
	}

	fmt.Println("===========================================")
	fmt.Println("  Lens Chat CLI")
	fmt.Println("  Conversational dataset exploration")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Printf("Loaded run %s (%d rows)\n", *runID, session.Provider().Snapshot().TotalRows)
	fmt.Println("Type your question (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			continue
		}
		executeQuestion(session, q)
	}

	fmt.Println("\nGoodbye!")
}

func executeQuestion(session *lens.Session, question string) {
	reply := session.Ask(question)
	fmt.Println()
	fmt.Println(reply.Text)

	if session.Apply(reply) {
		snap := session.Provider().Snapshot()
		fmt.Printf("[%d of %d rows match", len(snap.Rows), snap.TotalRows)
		if len(snap.Filters) > 0 {
			dims := make([]string, 0, len(snap.Filters))
			for dim := range snap.Filters {
				dims = append(dims, dim)
			}
			sort.Strings(dims)
			fmt.Printf("; filters: %s", strings.Join(dims, ", "))
		}
		fmt.Println("]")
	}

	if reply.Chart != nil {
		fmt.Printf("[chart: %s, metric: %s, dimension: %s]\n",
			reply.Chart.ChartType, reply.Chart.MetricID, reply.Chart.Dimension)
	}
	fmt.Println()
}

func buildSession(ctx context.Context, cfg *config.Config, backendURL, apiKey, cachePath string) (*lens.Session, func(), error) {
	var fetcher provider.Fetcher
	if backendURL != "" {
		fetcher = &backend.Client{BaseURL: backendURL, APIKey: apiKey}
	}

	var cache snapshot.Store
	if cachePath != "" {
		store, err := sqlite.Open(ctx, cachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		cache = store
	}

	session := lens.New(lens.Options{
		Config:  cfg,
		Fetcher: fetcher,
		Cache:   cache,
	})

	cleanup := func() {
		if cache != nil {
			cache.Close()
		}
	}
	return session, cleanup, nil
}

func reportDegraded(report provider.SourceReport) {
	if !report.Degraded() {
		return
	}
	outcomes := map[string]provider.ResourceOutcome{
		"metrics":      report.Metrics,
		"dimensions":   report.Dimensions,
		"dataset":      report.Dataset,
		"insights":     report.Insights,
		"correlations": report.Correlations,
		"intelligence": report.Intelligence,
	}
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		o := outcomes[name]
		if o.Source == provider.SourceLive {
			continue
		}
		if o.Err != nil {
			log.Printf("%s served from %s: %v", name, o.Source, o.Err)
		} else {
			log.Printf("%s served from %s", name, o.Source)
		}
	}
}
