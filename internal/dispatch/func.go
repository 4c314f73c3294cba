package dispatch

import (
	"context"

	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
)

// Func adapts a plain function into a Destination.
type Func struct {
	DestinationName string
	IsEnabled       bool
	SendFunc        func(ctx context.Context, payload *leads.Payload) error
}

func (f Func) Name() string  { return f.DestinationName }
func (f Func) Enabled() bool { return f.IsEnabled && f.SendFunc != nil }

func (f Func) Send(ctx context.Context, payload *leads.Payload) error {
	return f.SendFunc(ctx, payload)
}
