package bootstrap

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/qqenglishbr/lp-qqenglish/internal/config"
	"github.com/qqenglishbr/lp-qqenglish/internal/dispatch"
	"github.com/qqenglishbr/lp-qqenglish/pkg/logging"
)

func enabledNames(dests []dispatch.Destination) []string {
	var names []string
	for _, d := range dests {
		if d.Enabled() {
			names = append(names, d.Name())
		}
	}
	return names
}

func TestBuildDestinationsNothingConfigured(t *testing.T) {
	d := BuildDestinations(context.Background(), &appconfig.Config{}, nil, logging.New("error"))
	defer d.Close()

	assert.Len(t, d.List(), 5)
	assert.Empty(t, enabledNames(d.List()))
}

func TestBuildDestinationsEnablesConfigured(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{
		N8NWebhookURL:   "https://n8n.example.com/webhook/lead",
		MetaPixelID:     "123",
		MetaAccessToken: "token",
		RedisAddr:       mr.Addr(),
		LeadStreamKey:   "leads",
		KafkaBrokers:    []string{"localhost:9092"},
		KafkaTopic:      "leads",
	}

	d := BuildDestinations(context.Background(), cfg, nil, logging.New("error"))
	defer d.Close()

	assert.Equal(t, []string{"webhook", "meta_capi", "redis_stream", "kafka"}, enabledNames(d.List()))
}

func TestBuildDestinationsLogsMetaSkipFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := &appconfig.Config{MetaPixelID: "123", MetaAccessToken: "   "}

	d := BuildDestinations(context.Background(), cfg, nil, logging.NewWithWriter("info", &buf))
	defer d.Close()

	assert.False(t, cfg.MetaEnabled())
	assert.False(t, d.Meta.Enabled())
	assert.Contains(t, buf.String(), "meta conversions api not configured")

	buf.Reset()
	cfg = &appconfig.Config{MetaPixelID: "123", MetaAccessToken: "token"}
	d2 := BuildDestinations(context.Background(), cfg, nil, logging.NewWithWriter("info", &buf))
	defer d2.Close()

	assert.True(t, d2.Meta.Enabled())
	assert.NotContains(t, buf.String(), "meta conversions api not configured")
}

func TestBuildRedisClient(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, nil, false))

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, nil, true)
	require.NotNil(t, client)
	defer client.Close()

	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.New("error"), true))
}

func TestBuildKafkaWriter(t *testing.T) {
	assert.Nil(t, BuildKafkaWriter(&appconfig.Config{KafkaTopic: "leads"}))
	assert.Nil(t, BuildKafkaWriter(&appconfig.Config{KafkaBrokers: []string{"b:9092"}}))

	w := BuildKafkaWriter(&appconfig.Config{KafkaBrokers: []string{"b:9092"}, KafkaTopic: "leads"})
	require.NotNil(t, w)
	assert.Equal(t, "leads", w.Topic)
	_ = w.Close()
}
