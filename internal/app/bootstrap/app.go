package bootstrap

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qqenglishbr/lp-qqenglish/internal/api/router"
	appconfig "github.com/qqenglishbr/lp-qqenglish/internal/config"
	"github.com/qqenglishbr/lp-qqenglish/internal/dispatch"
	httpmiddleware "github.com/qqenglishbr/lp-qqenglish/internal/http/middleware"
	"github.com/qqenglishbr/lp-qqenglish/internal/leadqueue"
	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
	"github.com/qqenglishbr/lp-qqenglish/internal/observability/metrics"
	"github.com/qqenglishbr/lp-qqenglish/pkg/logging"
)

// App is the fully wired lead capture service shared by the HTTP server and
// the Lambda entrypoint.
type App struct {
	Handler      http.Handler
	Dispatcher   *dispatch.Dispatcher
	destinations *Destinations
	limiter      *httpmiddleware.IPRateLimiter
}

// BuildApp wires destinations, the dispatcher, the lead handler and the router.
// A nil registry registers metrics on the prometheus default registry.
func BuildApp(ctx context.Context, cfg *appconfig.Config, sqsClient leadqueue.SendMessageAPI, reg *prometheus.Registry, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	if cfg.SiteName != "" {
		logger = logger.With("site", cfg.SiteName)
	}

	var (
		registerer     prometheus.Registerer = prometheus.DefaultRegisterer
		metricsHandler                       = promhttp.Handler()
	)
	if reg != nil {
		registerer = reg
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	leadMetrics := metrics.NewLeadMetrics(registerer)

	destinations := BuildDestinations(ctx, cfg, sqsClient, logger)
	dispatcher := dispatch.New(destinations.List(), leadMetrics, logger)
	logger.Info("lead destinations configured", "enabled", dispatcher.Enabled())

	handler := leads.NewHandler(leads.HandlerConfig{
		Validator: leads.NewValidator(cfg.DefaultCountryCode),
		Builder: &leads.Builder{
			DefaultCountryCode: cfg.DefaultCountryCode,
			Source:             cfg.LeadSource,
			Site:               cfg.SiteName,
			ValidationCodes:    cfg.ValidationCodeEnabled,
		},
		Dispatcher:   dispatcher,
		Metrics:      leadMetrics,
		Logger:       logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	limiter := httpmiddleware.StartIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	return &App{
		Handler: router.New(&router.Config{
			Logger:             logger,
			LeadsHandler:       handler,
			MetricsHandler:     metricsHandler,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimiter:        limiter,
		}),
		Dispatcher:   dispatcher,
		destinations: destinations,
		limiter:      limiter,
	}
}

// Close stops the rate limiter's sweeper and releases destination clients.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.limiter.Stop()
	if a.destinations == nil {
		return nil
	}
	return a.destinations.Close()
}
