// Package main is the entry point for the Flyerly server.
// It loads configuration, picks the session store, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flyerly/internal/ai"
	"flyerly/internal/cache"
	"flyerly/internal/catalog"
	"flyerly/internal/compose"
	"flyerly/internal/config"
	"flyerly/internal/generate"
	"flyerly/internal/handlers"
	"flyerly/internal/middleware"
	"flyerly/internal/render"
	"flyerly/internal/router"
	"flyerly/internal/session"
	"flyerly/web"
)

func main() {
	if err := config.LoadEnvFile(".env", "../.env"); err != nil {
		slog.Error("failed to read .env file", "error", err)
		os.Exit(1)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"sessions", cfg.SessionBackend,
		"timezone", cfg.Location.String(),
	)

	// Session store: in-process by default, Valkey when sessions must
	// survive a restart or be shared between instances.
	store, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	templates := catalog.Default()
	sessions := session.NewManager(store, templates, session.Options{Location: cfg.Location})
	unsubscribe := sessions.Subscribe(func(c session.Change) {
		slog.Debug("flyer changed",
			"session", c.SessionID,
			"command", c.Command,
			"version", c.Snapshot.Version,
		)
	})
	defer unsubscribe()

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, ModelImage: cfg.OpenAIModelImage, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, ModelImage: cfg.GeminiModelImage, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"image", aiRegistry.ImageProviderName(),
		"available", aiRegistry.Available(),
		"image_generation", aiRegistry.SupportsImageGeneration(),
	)
	if len(aiRegistry.Available()) == 0 {
		slog.Warn("no AI provider configured, tagline and image generation disabled")
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	exporter := compose.NewExporter(compose.Options{
		Location:      cfg.Location,
		DecodeTimeout: cfg.DecodeTimeout,
		CalendarQR:    cfg.CalendarQR,
	})

	cookies := session.Cookies{Secure: !cfg.IsDev(), TTL: cfg.SessionTTL, Secret: []byte(cfg.SessionSecret)}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, session cookies will not survive a restart")
	}
	flyer := handlers.NewFlyer(renderer, sessions, templates, exporter,
		generate.NewTagline(aiRegistry, aiRegistry),
		generate.NewImage(aiRegistry, aiRegistry),
		aiRegistry,
		handlers.Options{
			PlaceholderURL: cfg.PlaceholderURL,
			MaxUploadBytes: cfg.MaxUploadBytes,
			Cookies:        cookies,
		},
	)

	limiter := middleware.NewRateLimiter(cfg.AIRateLimit, time.Minute)
	defer limiter.Stop()

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		slog.Error("failed to open embedded assets", "error", err)
		os.Exit(1)
	}

	r := router.New(flyer, router.Options{
		Cookies:    cookies,
		CSP:        middleware.ContentSecurityPolicy(cfg.PlaceholderURL),
		Limiter:    limiter,
		Static:     static,
		AdminToken: cfg.AdminToken,
	})
	if cfg.AdminToken == "" {
		slog.Info("ADMIN_TOKEN not set, operator routes disabled")
	}

	// WriteTimeout must accommodate image generation, which can take well
	// over a minute on some providers.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server stopped gracefully")
}

// openStore builds the configured session store. The returned close
// function releases its background resources.
func openStore(cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionBackend == config.BackendValkey {
		client, err := cache.ConnectValkey(context.Background(), cache.Options{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.NewValkeyStore(client, cfg.SessionTTL), func() { client.Close() }, nil
	}

	mem := session.NewMemoryStore(cfg.SessionTTL)
	stop, err := mem.StartSweeper("")
	if err != nil {
		return nil, nil, err
	}
	return mem, stop, nil
}
