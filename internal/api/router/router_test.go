package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qqenglishbr/lp-qqenglish/internal/dispatch"
	httpmiddleware "github.com/qqenglishbr/lp-qqenglish/internal/http/middleware"
	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
	"github.com/qqenglishbr/lp-qqenglish/internal/observability/metrics"
	"github.com/qqenglishbr/lp-qqenglish/pkg/logging"
)

type countingDestination struct {
	mu    sync.Mutex
	name  string
	calls int
}

func (d *countingDestination) Name() string  { return d.name }
func (d *countingDestination) Enabled() bool { return true }
func (d *countingDestination) Send(context.Context, *leads.Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return nil
}

func newTestRouter(t *testing.T, dests ...dispatch.Destination) http.Handler {
	t.Helper()

	logger := logging.New("error")
	reg := prometheus.NewRegistry()
	m := metrics.NewLeadMetrics(reg)
	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Validator:  leads.NewValidator("+55"),
		Builder:    &leads.Builder{DefaultCountryCode: "+55"},
		Dispatcher: dispatch.New(dests, m, logger),
		Metrics:    m,
		Logger:     logger,
	})

	limiter := httpmiddleware.StartIPRateLimiter(100, 100)
	t.Cleanup(limiter.Stop)

	return New(&Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://business.example.com"},
		RateLimiter:        limiter,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterLeadEndpointDeliversToEveryDestination(t *testing.T) {
	hook := &countingDestination{name: "webhook"}
	meta := &countingDestination{name: "meta_capi"}
	router := newTestRouter(t, hook, meta)

	body, _ := json.Marshal(map[string]string{
		"name":  "Maria dos Santos",
		"email": "maria@example.com",
		"phone": "11988887777",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/lead", bytes.NewReader(body))
	req.Header.Set("Origin", "https://business.example.com")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://business.example.com" {
		t.Errorf("expected CORS header, got %q", got)
	}
	if hook.calls != 1 || meta.calls != 1 {
		t.Fatalf("expected both destinations called once, got webhook=%d meta=%d", hook.calls, meta.calls)
	}

	var resp leads.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.LeadID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestRouterLeadEndpointRejectsGet(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/lead", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
	var resp leads.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
}

func TestRouterPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/lead", nil)
	req.Header.Set("Origin", "https://business.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lead", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte(`lp_leads_submissions_total{status="method_not_allowed"} 1`)) {
		t.Fatalf("expected submission counter in metrics output:\n%s", rr.Body.String())
	}
}
