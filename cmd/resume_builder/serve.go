package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/enhance"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/linkedin"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/monitor"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the resume generation, import, refine and export endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	mon := monitor.New()
	browser := newBrowser(cfg)
	deps := server.Deps{
		Store:     database,
		JWT:       server.NewJWTService(jwtCfg),
		Passwords: passwords,
		Limiter:   ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Scraper:   linkedin.NewScraper(browser),
		Printer:   browser,
		Metrics:   mon,
	}

	client, err := newModelClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
		opts := generation.DefaultOptions()
		opts.Timeout = cfg.ModelTimeout()
		opts.HealthRouting = cfg.HealthRouting

		deps.Generator = generation.NewGenerator(client, llm.NewQuotaClassifier(cfg.DefaultRetryAfter()), mon, opts)
		deps.Refiner = generation.NewRefiner(client, mon, opts)
		deps.Chat = generation.NewChat(client, mon, opts)
		deps.Enhancer = enhance.NewEnhancer(client, mon, cfg.ModelTimeout())
	} else {
		log.Printf("GEMINI_API_KEY not set; generation endpoints will report the AI service as unavailable")
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return mon.RunPruner(ctx, cfg.PruneInterval(), cfg.MetricsRetention()) })
	return g.Wait()
}

// newModelClient returns nil when no API key is configured.
func newModelClient(ctx context.Context, cfg *config.Config) (*llm.GeminiClient, error) {
	if !cfg.HasAPIKey() {
		return nil, nil
	}
	llmCfg := llm.DefaultConfig().
		WithModel(llm.TierAdvanced, cfg.PrimaryModel).
		WithModel(llm.TierStandard, cfg.FallbackModel).
		WithModel(llm.TierLite, cfg.LiteModel).
		WithTimeout(cfg.ModelTimeout())
	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}

func newBrowser(cfg *config.Config) *fetch.Browser {
	browser := fetch.NewBrowser(cfg.ChromePath)
	browser.PageTimeout = cfg.PageLoadTimeout()
	browser.Verbose = cfg.Verbose
	return browser
}
