// Package dispatch fans an accepted lead out to every enabled destination.
// Destinations are independent: a failure or panic in one is logged and
// counted but never reaches the others or the caller.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
	"github.com/qqenglishbr/lp-qqenglish/internal/observability/metrics"
	"github.com/qqenglishbr/lp-qqenglish/pkg/logging"
)

var tracer = otel.Tracer("lp.internal.dispatch")

// Destination is one downstream system that receives lead payloads.
type Destination interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, payload *leads.Payload) error
}

// Dispatcher sends payloads to its destinations concurrently.
type Dispatcher struct {
	destinations []Destination
	metrics      *metrics.LeadMetrics
	logger       *logging.Logger
}

var _ leads.Dispatcher = (*Dispatcher)(nil)

// New builds a dispatcher over destinations. Nil entries are ignored.
func New(destinations []Destination, m *metrics.LeadMetrics, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	kept := make([]Destination, 0, len(destinations))
	for _, dest := range destinations {
		if dest != nil {
			kept = append(kept, dest)
		}
	}
	return &Dispatcher{destinations: kept, metrics: m, logger: logger}
}

// Enabled lists the names of destinations that will receive payloads.
func (d *Dispatcher) Enabled() []string {
	var names []string
	for _, dest := range d.destinations {
		if dest.Enabled() {
			names = append(names, dest.Name())
		}
	}
	return names
}

// Dispatch sends payload to every enabled destination at once and waits for
// all of them. The returned slice has one entry per enabled destination.
func (d *Dispatcher) Dispatch(ctx context.Context, payload *leads.Payload) []leads.DeliveryResult {
	active := make([]Destination, 0, len(d.destinations))
	for _, dest := range d.destinations {
		if dest.Enabled() {
			active = append(active, dest)
		}
	}
	if len(active) == 0 {
		d.logger.Debug("dispatch: no destinations enabled", "lead_id", payload.LeadID)
		return nil
	}

	results := make([]leads.DeliveryResult, len(active))
	// A plain Group: one failed destination must not cancel the others.
	var g errgroup.Group
	for i, dest := range active {
		g.Go(func() error {
			results[i] = d.send(ctx, dest, payload)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Dispatcher) send(ctx context.Context, dest Destination, payload *leads.Payload) (res leads.DeliveryResult) {
	name := dest.Name()
	ctx, span := tracer.Start(ctx, "dispatch."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("lp.destination", name),
			attribute.String("lp.lead_id", payload.LeadID),
		),
	)
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("dispatch: %s panicked: %v", name, rec)
		}
		res.Destination = name
		res.Duration = time.Since(start)

		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			d.logger.Error("dispatch: delivery failed",
				"destination", name,
				"lead_id", payload.LeadID,
				"error", res.Err,
				"duration_ms", res.Duration.Milliseconds(),
			)
		} else {
			d.logger.Info("dispatch: delivered",
				"destination", name,
				"lead_id", payload.LeadID,
				"duration_ms", res.Duration.Milliseconds(),
			)
		}
		d.metrics.ObserveDispatch(name, res.Err == nil, res.Duration.Seconds())
		span.End()
	}()

	res.Err = dest.Send(ctx, payload)
	return res
}
