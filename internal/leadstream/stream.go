// Package leadstream appends accepted leads to a Redis stream so internal
// consumers can pick them up without going through the automation webhook.
package leadstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
)

const (
	DefaultKey    = "leads"
	DefaultMaxLen = 10000
)

// Stream writes payloads with XADD, trimming the stream to roughly maxLen entries.
type Stream struct {
	client redis.Cmdable
	key    string
	maxLen int64
}

// New creates a stream destination. A nil client yields a disabled destination.
func New(client redis.Cmdable, key string, maxLen int64) *Stream {
	if key == "" {
		key = DefaultKey
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Stream{client: client, key: key, maxLen: maxLen}
}

func (s *Stream) Name() string { return "redis_stream" }

func (s *Stream) Enabled() bool { return s != nil && s.client != nil }

// Send appends payload as a stream entry with lead_id and payload fields.
func (s *Stream) Send(ctx context.Context, payload *leads.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("leadstream: marshal payload: %w", err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.key,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"lead_id": payload.LeadID,
			"payload": string(body),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("leadstream: xadd %s: %w", s.key, err)
	}
	return nil
}
