package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
	"github.com/ekaya-inc/bizget-engine/pkg/database"
	"github.com/ekaya-inc/bizget-engine/pkg/handlers"
	"github.com/ekaya-inc/bizget-engine/pkg/keyvault"
	"github.com/ekaya-inc/bizget-engine/pkg/llm"
	"github.com/ekaya-inc/bizget-engine/pkg/logging"
	"github.com/ekaya-inc/bizget-engine/pkg/mailer"
	"github.com/ekaya-inc/bizget-engine/pkg/mcp"
	"github.com/ekaya-inc/bizget-engine/pkg/mcp/tools"
	"github.com/ekaya-inc/bizget-engine/pkg/middleware"
	"github.com/ekaya-inc/bizget-engine/pkg/repositories"
	"github.com/ekaya-inc/bizget-engine/pkg/services"
	"github.com/ekaya-inc/bizget-engine/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("bizget-engine: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(Version)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Secrets pulled from Key Vault land in the environment, so the config is read again.
	vault, err := keyvault.Hydrate(ctx, cfg.KeyVault.URI, keyvault.DefaultMappings(), keyvault.OSEnv{}, logger)
	if err != nil {
		logger.Warn("Key Vault hydration unavailable, continuing with environment only",
			zap.String("error", logging.SanitizeError(err)))
		vault = &keyvault.Status{Enabled: true}
	}
	if vault.Summary().LoadedSecretCount > 0 {
		if cfg, err = config.Load(Version); err != nil {
			return fmt.Errorf("failed to reload config after Key Vault hydration: %w", err)
		}
	}

	health := cfg.Health()
	logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", cfg.Database.Type),
		zap.String("ai_provider", health.AIProvider),
		zap.Bool("newsletters_ready", health.Ready),
		zap.Strings("missing_vars", health.MissingVars),
		zap.Int("key_vault_secrets", vault.Summary().LoadedSecretCount),
	)

	repo, closeStore, err := openProfileStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	locker, closeRedis, err := openTickLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	var llmClient llm.LLMClient
	if cfg.AI.Provider() != config.AIProviderNone {
		llmClient, err = llm.NewClientFromConfig(&cfg.AI, logger)
		if err != nil {
			// Reported through /api/health/config; use-case endpoints still work.
			logger.Warn("AI client unavailable", zap.String("error", logging.SanitizeError(err)))
			llmClient = nil
		}
	}

	newsletters := services.NewNewsletterService(llmClient, float64(cfg.AI.Temperature), logger)
	delivery := services.NewNewsletterDelivery(newsletters, mailer.NewSMTPSender(cfg.SMTP, logger), repo, logger)
	profiles := services.NewProfileService(repo, delivery, logger)
	job, err := services.NewNewsletterJob(repo, delivery, locker, services.NewsletterJobConfig{
		Cron:        cfg.Newsletter.Cron,
		LockTTL:     cfg.Newsletter.LockTTL,
		Concurrency: cfg.Newsletter.Concurrency,
	}, logger)
	if err != nil {
		return err
	}

	catalog := services.NewDefaultDomainCatalog()
	generator := services.NewUseCaseGenerator(catalog, services.DefaultTemplateLibrary(), logger)
	analyzer := services.NewUseCaseAnalyzer()

	mcpServer := mcp.NewServer(cfg.Version, logger)
	tools.RegisterUseCaseTools(mcpServer.MCP(), &tools.UseCaseToolDeps{
		Catalog:   catalog,
		Generator: generator,
		Analyzer:  analyzer,
		Logger:    logger.Named("mcp-tools"),
	})

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, vault, logger).RegisterRoutes(mux)
	handlers.NewProfileHandler(profiles, job, logger).RegisterRoutes(mux)
	handlers.NewUseCaseHandler(catalog, generator, analyzer, logger).RegisterRoutes(mux)
	handlers.NewMCPHandler(mcpServer, logger).RegisterRoutes(mux)
	mux.Handle("GET /", ui.Handler())

	if cfg.Newsletter.Enabled {
		go func() {
			if err := job.Start(ctx); err != nil {
				logger.Error("Weekly newsletter schedule failed", zap.Error(err))
			}
		}()
	} else {
		logger.Info("Weekly newsletter schedule disabled")
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Generating and mailing the first newsletter can take a while.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting bizget-engine", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openProfileStore connects the configured database and applies migrations.
func openProfileStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.ProfileRepository, func(), error) {
	switch cfg.Database.Type {
	case config.DatabaseTypePostgres:
		db, err := database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
			MinConnections: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres at %s: %w",
				logging.SanitizeConnectionString(cfg.Database.ConnectionString()), err)
		}
		if err := database.RunMigrations(db.StdDB(), config.DatabaseTypePostgres, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repositories.NewPostgresProfileRepository(db), db.Close, nil

	default:
		db, err := database.OpenSQLite(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db, config.DatabaseTypeSQLite, logger); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repositories.NewSQLiteProfileRepository(db), closer(db, logger), nil
	}
}

// openTickLocker returns a Redis-backed locker when Redis is configured, else nil.
func openTickLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.TickLocker, func(), error) {
	client, err := database.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		logger.Info("Redis not configured; newsletter ticks are not coordinated across replicas")
		return nil, func() {}, nil
	}
	return services.NewRedisTickLocker(client), closer(client, logger), nil
}

func closer(c io.Closer, logger *zap.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("Close failed", zap.Error(err))
		}
	}
}
