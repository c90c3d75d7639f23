// Package app wires the pipelines together and runs one refresh cycle.
package app

import (
	"context"
	"log"
	"time"

	"github.com/deusflow/newspulse/internal/config"
	"github.com/deusflow/newspulse/internal/enrich"
	"github.com/deusflow/newspulse/internal/gemini"
	"github.com/deusflow/newspulse/internal/logger"
	"github.com/deusflow/newspulse/internal/metrics"
	"github.com/deusflow/newspulse/internal/news"
	"github.com/deusflow/newspulse/internal/proxy"
	"github.com/deusflow/newspulse/internal/ratelimit"
	"github.com/deusflow/newspulse/internal/sources"
	"github.com/deusflow/newspulse/internal/storage"
	"github.com/deusflow/newspulse/internal/translate"
	"github.com/deusflow/newspulse/internal/tts"
)

// App holds every wired component. Embedders (a UI shell, an API server)
// reach the pipelines through these fields; the CLI entry point only uses
// RefreshAll.
type App struct {
	Config     *config.Config
	Store      *storage.Store
	Gemini     *gemini.Client
	Limiter    *ratelimit.AIRateLimiter
	News       *news.Orchestrator
	Translator *translate.Translator
	Enricher   *enrich.Enricher
	Audio      *tts.Resolver
}

// New builds the full component graph from the environment. A missing
// database or API key is not fatal: the affected component degrades to its
// fallback mode and the rest of the app keeps working.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Debug)

	var store *storage.Store
	if cfg.DatabaseURL != "" {
		store, err = storage.Open(cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ shared cache unavailable, running without persistence: %v", err)
			store = nil
		}
	} else {
		log.Println("ℹ️ DATABASE_URL not set, running without persistence")
	}

	var gem *gemini.Client
	if cfg.GeminiAPIKey != "" {
		gem, err = gemini.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("⚠️ Gemini client unavailable: %v", err)
			gem = nil
		}
	} else {
		log.Println("ℹ️ GEMINI_API_KEY not set, AI features degraded")
	}

	limiter := ratelimit.New(cfg.MaxTextRequests, cfg.MaxTTSRequests, cfg.MaxTextRequests, cfg.MaxTotalRequests)

	resolver := sources.NewResolver(store)
	if err := resolver.LoadOverride(cfg.FeedsConfigPath); err != nil {
		log.Printf("⚠️ feed override file ignored: %v", err)
	}

	orch := news.NewOrchestrator(proxy.NewFetcher(proxy.DefaultRelays), resolver, store)
	orch.SetStaleThreshold(cfg.StaleThreshold)

	// A nil *gemini.Client must stay a nil interface on the consumers,
	// otherwise their nil checks pass and calls panic.
	var textGen translate.TextGenerator
	var jsonGen enrich.JSONGenerator
	var synth tts.Synthesizer
	if gem != nil {
		textGen = gem
		jsonGen = gem
		synth = gem
	}

	return &App{
		Config:     cfg,
		Store:      store,
		Gemini:     gem,
		Limiter:    limiter,
		News:       orch,
		Translator: translate.New(store, textGen, cfg.OpenAIAPIKey, limiter),
		Enricher:   enrich.New(store, jsonGen, limiter),
		Audio:      tts.NewResolver(store, synth, limiter),
	}, nil
}

func (a *App) Close() {
	if a.Gemini != nil {
		a.Gemini.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			log.Printf("⚠️ closing shared cache: %v", err)
		}
	}
}

// RefreshAll runs one full acquisition cycle: every category, the breaking
// ticker, then a sweep of expired rows.
func (a *App) RefreshAll(ctx context.Context) {
	for _, category := range sources.Categories() {
		articles := a.News.FetchCategory(ctx, category)
		log.Printf("📰 %s: %d articles", category, len(articles))
	}

	ticker := a.News.FetchBreakingTicker(ctx)
	log.Printf("🔥 breaking ticker: %d headlines", len(ticker))

	a.Store.PurgeOlderThan(ctx, a.Config.PurgeAgeHours)

	metrics.Global.SetLastRun()
}

// Run is the CLI entry point: build the graph, do one refresh, report.
func Run() {
	a, err := New()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a.RefreshAll(ctx)

	stats := metrics.Global.GetStats()
	log.Printf("✅ refresh complete: %v fetches, %v cache hits, %v static fallbacks",
		stats["feed_fetches"], stats["cache_hits"], stats["static_fallbacks"])

	if a.Store != nil {
		for table, count := range a.Store.Stats(ctx) {
			log.Printf("📊 %s: %d rows", table, count)
		}
	}
}
