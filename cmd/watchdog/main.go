package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/tanishq20011430/job-watchdog/internal/config"
	"github.com/tanishq20011430/job-watchdog/internal/match"
	"github.com/tanishq20011430/job-watchdog/internal/notify"
	"github.com/tanishq20011430/job-watchdog/internal/pipeline"
	"github.com/tanishq20011430/job-watchdog/internal/secrets"
	"github.com/tanishq20011430/job-watchdog/internal/source"
	"github.com/tanishq20011430/job-watchdog/internal/store"
	"github.com/tanishq20011430/job-watchdog/internal/xpfilter"
)

func main() {
	once := flag.Bool("once", false, "run a single scan and exit, ignoring the schedule")
	configPath := flag.String("config", "", "path to config.yml (default: <data_dir>/config.yml)")
	flag.Parse()

	// .env is optional; real deployments use the environment or keychain.
	_ = godotenv.Load()

	dataDir := os.Getenv("WATCHDOG_DATA_DIR")
	if dataDir == "" {
		dataDir = config.Default().App.DataDir
	}

	path := *configPath
	if path == "" {
		var err error
		path, err = config.EnsureUserConfig(dataDir)
		if err != nil {
			log.Fatalf("config bootstrap failed: %v", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", path, err)
	}
	_ = config.OverlayBoards(&cfg, filepath.Join(dataDir, "boards.yml"))

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[config] error: %s", e)
		}
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One instance per data dir; overlapping scans would double-notify.
	lock := flock.New(filepath.Join(cfg.App.DataDir, "watchdog.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("acquire lock: %v", err)
	}
	if !locked {
		log.Fatal("another instance is already running")
	}
	defer func() { _ = lock.Unlock() }()

	db, err := store.Open(filepath.Join(cfg.App.DataDir, "watchdog.db"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Retention.Days > 0 {
		if n, err := db.CleanupOldPostings(ctx, cfg.Retention.Days); err != nil {
			log.Printf("[main] retention sweep: %v", err)
		} else if n > 0 {
			log.Printf("[main] expired %d stale postings", n)
		}
	}

	p, err := buildPipeline(cfg, db)
	if err != nil {
		log.Fatal(err)
	}

	runScan := func() {
		stats, err := p.Run(ctx)
		if err != nil {
			log.Printf("[main] scan failed: %v", err)
			return
		}
		log.Printf("[main] scan done in %s: %d fetched, %d new, %d matched, %d notified",
			stats.Duration().Round(time.Second), stats.TotalFetched,
			stats.TotalNew, stats.TotalMatched, stats.TotalNotified)
	}

	if *once || cfg.Search.Schedule == "" {
		runScan()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Search.Schedule, runScan); err != nil {
		log.Fatalf("invalid schedule %q: %v", cfg.Search.Schedule, err)
	}
	log.Printf("[main] scheduled scans: %s", cfg.Search.Schedule)
	c.Start()
	runScan()

	<-ctx.Done()
	log.Print("[main] shutting down")
	cronCtx := c.Stop()
	<-cronCtx.Done()
}

func buildPipeline(cfg config.Config, db *store.DB) (*pipeline.Pipeline, error) {
	client := source.NewClient(time.Duration(cfg.Search.RequestTimeoutSeconds) * time.Second)

	var sources []source.Fetcher
	if cfg.Sources.RemoteOK.Enabled {
		sources = append(sources, source.NewRemoteOK(client))
	}
	if cfg.Sources.Arbeitnow.Enabled {
		sources = append(sources, source.NewArbeitnow(client))
	}
	if cfg.Sources.Jobicy.Enabled {
		sources = append(sources, source.NewJobicy(client, cfg.Sources.Jobicy.Tag))
	}
	if cfg.Sources.Himalayas.Enabled {
		sources = append(sources, source.NewHimalayas(client))
	}
	if cfg.Sources.WeWorkRemotely.Enabled {
		wwr := source.NewWeWorkRemotely(client)
		if cfg.Sources.WeWorkRemotely.FeedURL != "" {
			wwr.FeedURL = cfg.Sources.WeWorkRemotely.FeedURL
		}
		sources = append(sources, wwr)
	}
	if cfg.Sources.Greenhouse.Enabled {
		sources = append(sources, source.NewGreenhouse(client, cfg.Sources.Greenhouse.Boards))
	}
	if cfg.Sources.SerpAPI.Enabled {
		key := secrets.Get(secrets.SerpAPIKey)
		if key == "" {
			return nil, fmt.Errorf("serpapi enabled but %s is not set", secrets.SerpAPIKey)
		}
		sources = append(sources, source.NewSerpAPI(client, db, key,
			cfg.Sources.SerpAPI.Location, cfg.Sources.SerpAPI.MonthlyLimit))
	}

	geminiKey := secrets.Get(secrets.GeminiAPIKey)
	var embedder match.Embedder
	if geminiKey != "" {
		embedder = &match.GeminiEmbedder{APIKey: geminiKey, Model: cfg.Matching.EmbedModel}
	} else {
		log.Printf("[main] %s not set; semantic scoring falls back to keywords", secrets.GeminiAPIKey)
	}

	matcher := match.New(match.Config{
		RequiredKeywords:   cfg.Matching.RequiredKeywords,
		ExcludeKeywords:    cfg.Matching.ExcludeKeywords,
		TargetLocations:    cfg.Locations.Target,
		ExcludeLocations:   cfg.Locations.Exclude,
		RestrictionPhrases: cfg.Locations.RestrictionPhrases,
		RemoteTerms:        cfg.Locations.RemoteTerms,
		Cities:             cfg.Locations.Cities,
		KeywordWeights:     cfg.Matching.KeywordWeights,
		Profiles:           cfg.Matching.Profiles,
		MinScore:           cfg.Matching.MinScore,
		MaxAgeHours:        cfg.Search.MaxAgeHours,
	}, embedder)

	var deep pipeline.DeepFilterer
	if cfg.Experience.Enabled && geminiKey != "" {
		llm := xpfilter.NewLLMFilter(geminiKey)
		if cfg.Experience.Model != "" {
			llm.Model = cfg.Experience.Model
		}
		if cfg.Experience.Concurrency > 0 {
			llm.Concurrency = int64(cfg.Experience.Concurrency)
		}
		if cfg.Experience.CallDelayMS > 0 {
			llm.CallDelay = time.Duration(cfg.Experience.CallDelayMS) * time.Millisecond
		}
		deep = llm
	}

	var notifiers []notify.Notifier
	if cfg.Notify.Telegram.Enabled {
		token := secrets.Get(secrets.TelegramBotToken)
		if token == "" {
			return nil, fmt.Errorf("telegram enabled but %s is not set", secrets.TelegramBotToken)
		}
		tg, err := notify.NewTelegram(token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
	}
	if cfg.Notify.Email.Enabled {
		notifiers = append(notifiers, notify.NewEmail(notify.EmailConfig{
			SMTPServer: cfg.Notify.Email.SMTPServer,
			SMTPPort:   cfg.Notify.Email.SMTPPort,
			SMTPUser:   cfg.Notify.Email.FromEmail,
			SMTPPass:   secrets.Get(secrets.SMTPPassword),
			FromEmail:  cfg.Notify.Email.FromEmail,
			ToEmail:    cfg.Notify.Email.ToEmail,
		}))
	}
	if cfg.Notify.Console || len(notifiers) == 0 {
		notifiers = append(notifiers, notify.NewConsole())
	}

	return pipeline.New(db, matcher, deep, notifiers, sources, pipeline.Options{
		Keywords:             cfg.Search.Keywords,
		MaxConcurrentFetches: cfg.Search.MaxConcurrentFetches,
		SourceTimeout:        time.Duration(cfg.Search.RequestTimeoutSeconds) * time.Second,
		TopMatches:           cfg.Search.TopMatches,
		DeepFilter:           cfg.Experience.Enabled,
	}), nil
}
