package bootstrap

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/qqenglishbr/lp-qqenglish/internal/config"
	"github.com/qqenglishbr/lp-qqenglish/internal/dispatch"
	"github.com/qqenglishbr/lp-qqenglish/internal/leadbus"
	"github.com/qqenglishbr/lp-qqenglish/internal/leadqueue"
	"github.com/qqenglishbr/lp-qqenglish/internal/leadstream"
	"github.com/qqenglishbr/lp-qqenglish/internal/metacapi"
	"github.com/qqenglishbr/lp-qqenglish/internal/webhook"
	"github.com/qqenglishbr/lp-qqenglish/pkg/logging"
)

// Destinations holds every lead destination the process can deliver to.
// Unconfigured destinations are present but report Enabled() == false.
type Destinations struct {
	Webhook *webhook.Client
	Meta    *metacapi.Client
	Stream  *leadstream.Stream
	Queue   *leadqueue.Queue
	Bus     *leadbus.Publisher

	redis *redis.Client
}

// BuildDestinations wires destinations from config. sqsClient may be nil when
// no queue is configured.
func BuildDestinations(ctx context.Context, cfg *appconfig.Config, sqsClient leadqueue.SendMessageAPI, logger *logging.Logger) *Destinations {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		cfg = &appconfig.Config{}
	}

	d := &Destinations{
		Webhook: webhook.NewClient(cfg.N8NWebhookURL),
		Meta: metacapi.NewClient(metacapi.Config{
			PixelID:         cfg.MetaPixelID,
			AccessToken:     cfg.MetaAccessToken,
			GraphAPIBase:    cfg.MetaGraphAPIBase,
			TestEventCode:   cfg.MetaTestEventCode,
			ContentName:     cfg.MetaContentName,
			ContentCategory: cfg.MetaContentCategory,
		}),
		Queue: leadqueue.New(sqsClient, cfg.LeadQueueURL),
	}

	d.redis = BuildRedisClient(ctx, cfg, logger, true)
	if d.redis != nil {
		d.Stream = leadstream.New(d.redis, cfg.LeadStreamKey, cfg.LeadStreamMaxLen)
	} else {
		d.Stream = leadstream.New(nil, cfg.LeadStreamKey, cfg.LeadStreamMaxLen)
	}

	if w := BuildKafkaWriter(cfg); w != nil {
		d.Bus = leadbus.New(w)
	} else {
		d.Bus = leadbus.New(nil)
	}

	if !d.Webhook.Enabled() {
		logger.Warn("N8N_WEBHOOK_URL not set; automation webhook disabled")
	}
	if !cfg.MetaEnabled() {
		logger.Info("meta conversions api not configured; skipping")
	}
	return d
}

// List returns the destinations in dispatch order.
func (d *Destinations) List() []dispatch.Destination {
	return []dispatch.Destination{d.Webhook, d.Meta, d.Stream, d.Queue, d.Bus}
}

// Close releases the long-lived clients.
func (d *Destinations) Close() error {
	var errs []error
	if d.Bus != nil {
		errs = append(errs, d.Bus.Close())
	}
	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}
	return errors.Join(errs...)
}
