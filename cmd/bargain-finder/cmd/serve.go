package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/bargain-finder/api/openapi"
	"github.com/donaldgifford/bargain-finder/internal/api/handlers"
	"github.com/donaldgifford/bargain-finder/internal/api/middleware"
	"github.com/donaldgifford/bargain-finder/internal/config"
	"github.com/donaldgifford/bargain-finder/internal/marketplace"
	"github.com/donaldgifford/bargain-finder/internal/marketplace/amazon"
	"github.com/donaldgifford/bargain-finder/internal/marketplace/ebay"
	"github.com/donaldgifford/bargain-finder/internal/marketplace/rapidapi"
	"github.com/donaldgifford/bargain-finder/internal/notify"
	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
	"github.com/donaldgifford/bargain-finder/internal/tracing"
	"github.com/donaldgifford/bargain-finder/pkg/evaluate"
	"github.com/donaldgifford/bargain-finder/pkg/logger"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	shutdownTracing, err := tracing.Setup(cmd.Context(), cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}

	e := newServer(cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "version", Version)

	// Start server in a goroutine.
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warn("flushing traces", "error", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer wires the limiter, provider clients, dispatcher and evaluator
// into an Echo server with the huma API mounted on it.
func newServer(cfg *config.Config, log *slog.Logger) *echo.Echo {
	limiter := newLimiter(cfg, log)
	dispatcher := newDispatcher(cfg, limiter, log)
	evaluator := newEvaluator(cfg, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.Tracing(nil))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(dispatcher)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e)

	api := humaecho.New(e, huma.DefaultConfig("bargain-finder API", Version))
	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(dispatcher))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(dispatcher))
	handlers.RegisterEvaluationRoutes(api, handlers.NewEvaluationHandler(
		dispatcher,
		evaluator,
		handlers.WithDealAlerter(newDealAlerter(cfg, log)),
	))
	handlers.RegisterRateLimitRoutes(api, handlers.NewRateLimitHandler(limiter))

	return e
}

func newLimiter(cfg *config.Config, log *slog.Logger) *ratelimit.Limiter {
	opts := []ratelimit.Option{ratelimit.WithLogger(log)}
	for provider, rl := range cfg.RateLimits {
		opts = append(opts, ratelimit.WithPolicy(provider, ratelimit.Policy{
			Capacity:   rl.Capacity,
			RefillRate: rl.RefillRate,
		}))
	}
	return ratelimit.New(opts...)
}

// newDispatcher builds one client per configured marketplace. Amazon uses
// PA-API when credentials exist, falling back to RapidAPI when both are
// configured.
func newDispatcher(cfg *config.Config, limiter *ratelimit.Limiter, log *slog.Logger) *marketplace.Dispatcher {
	var doer marketplace.HTTPDoer = &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	if cfg.HTTP.Retry.MaxAttempts > 1 {
		doer = marketplace.NewRetryDoer(doer,
			marketplace.WithMaxAttempts(cfg.HTTP.Retry.MaxAttempts),
			marketplace.WithBackoff(cfg.HTTP.Retry.InitialInterval, cfg.HTTP.Retry.MaxInterval),
			marketplace.WithRetryLogger(log),
		)
	}

	opts := []marketplace.DispatcherOption{marketplace.WithLogger(log)}

	var rapid marketplace.Client
	if cfg.RapidAPI.Enabled() {
		rapidOpts := []rapidapi.Option{
			rapidapi.WithCountry(cfg.RapidAPI.Country),
			rapidapi.WithHTTPClient(doer),
			rapidapi.WithLogger(log),
		}
		if cfg.RapidAPI.BaseURL != "" {
			rapidOpts = append(rapidOpts, rapidapi.WithBaseURL(cfg.RapidAPI.BaseURL))
		}
		rapid = rapidapi.New(
			rapidapi.Credentials{APIKey: cfg.RapidAPI.APIKey, APIHost: cfg.RapidAPI.APIHost},
			limiter,
			rapidOpts...,
		)
	}

	switch {
	case cfg.Amazon.Enabled():
		var pa marketplace.Client = amazon.New(
			amazon.Credentials{
				AccessKey:    cfg.Amazon.AccessKey,
				SecretKey:    cfg.Amazon.SecretKey,
				AssociateTag: cfg.Amazon.AssociateTag,
				Region:       cfg.Amazon.Region,
			},
			limiter,
			amazon.WithBaseURL(cfg.Amazon.Endpoint),
			amazon.WithMarketplace(cfg.Amazon.Marketplace),
			amazon.WithHTTPClient(doer),
			amazon.WithLogger(log),
		)
		if rapid != nil {
			pa = marketplace.NewFallback(pa, rapid, log)
		}
		opts = append(opts, marketplace.WithClient(domain.MarketplaceAmazon, pa))
	case rapid != nil:
		opts = append(opts, marketplace.WithClient(domain.MarketplaceAmazon, rapid))
	}

	if cfg.Ebay.Enabled() {
		opts = append(opts, marketplace.WithClient(domain.MarketplaceEbay, ebay.New(
			ebay.Credentials{AppID: cfg.Ebay.AppID, AuthToken: cfg.Ebay.AuthToken, SiteID: cfg.Ebay.SiteID},
			limiter,
			ebay.WithFindingURL(cfg.Ebay.FindingURL),
			ebay.WithHTTPClient(doer),
			ebay.WithLogger(log),
		)))
	}

	return marketplace.NewDispatcher(opts...)
}

func newEvaluator(cfg *config.Config, log *slog.Logger) *evaluate.Evaluator {
	backend := evaluate.NewResponsesBackend(
		cfg.LLM.Endpoint,
		cfg.LLM.Model,
		evaluate.WithResponsesHTTPClient(&http.Client{
			Timeout:   cfg.LLM.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	)
	return evaluate.NewEvaluator(
		backend,
		evaluate.WithModel(cfg.LLM.Model),
		evaluate.WithTemperature(cfg.LLM.Temperature),
		evaluate.WithMaxTokens(cfg.LLM.MaxTokens),
		evaluate.WithWebSearch(cfg.LLM.WebSearchEnabled()),
		evaluate.WithLogger(log),
	)
}

// newDealAlerter posts to Discord when a webhook is configured and logs
// discarded alerts otherwise.
func newDealAlerter(cfg *config.Config, log *slog.Logger) *notify.DealAlerter {
	var n notify.Notifier = notify.NewNoOpNotifier(log)
	if cfg.Alerts.Enabled() {
		n = notify.NewDiscordNotifier(cfg.Alerts.DiscordWebhookURL, notify.WithHTTPClient(&http.Client{
			Timeout:   cfg.Alerts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}))
	}
	return notify.NewDealAlerter(n, cfg.Alerts.MinUndervaluation, cfg.Alerts.MinConfidence, log)
}
