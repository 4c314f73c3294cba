package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/qqenglishbr/lp-qqenglish/internal/observability/metrics"
	"github.com/qqenglishbr/lp-qqenglish/pkg/logging"
)

const defaultMaxBodyBytes = 64 << 10

var (
	errNullSubmission = errors.New("leads: request body is null")
	errTrailingData   = errors.New("leads: unexpected data after request body")
)

// Dispatcher delivers an accepted payload to the configured destinations.
// It must settle every destination before returning and never fail the request.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload *Payload) []DeliveryResult
}

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Validator    *Validator
	Builder      *Builder
	Dispatcher   Dispatcher
	Metrics      *metrics.LeadMetrics
	Logger       *logging.Logger
	MaxBodyBytes int64
}

// Handler handles lead form submissions
type Handler struct {
	validator    *Validator
	builder      *Builder
	dispatcher   Dispatcher
	metrics      *metrics.LeadMetrics
	logger       *logging.Logger
	maxBodyBytes int64
}

// NewHandler creates a new leads handler
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		validator:    cfg.Validator,
		builder:      cfg.Builder,
		dispatcher:   cfg.Dispatcher,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	if h.logger == nil {
		h.logger = logging.Default()
	}
	if h.validator == nil {
		h.validator = NewValidator(DefaultCountryCode)
	}
	if h.builder == nil {
		h.builder = &Builder{}
	}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = defaultMaxBodyBytes
	}
	return h
}

// SubmitLead handles /api/lead. Only POST is accepted.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithContext(r.Context())

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("lead submission panicked", "panic", fmt.Sprint(rec))
			h.metrics.ObserveSubmission("error")
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: msgInternalError})
		}
	}()

	if r.Method != http.MethodPost {
		h.MethodNotAllowed(w, r)
		return
	}

	sub, err := decodeSubmission(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		logger.Error("failed to decode lead submission", "error", err)
		h.metrics.ObserveSubmission("error")
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: msgInternalError})
		return
	}

	if err := h.validator.Validate(sub); err != nil {
		if !IsValidationError(err) {
			logger.Error("lead validation failed unexpectedly", "error", err)
			h.metrics.ObserveSubmission("error")
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: msgInternalError})
			return
		}
		logger.Info("lead rejected", "reason", err.Error())
		h.metrics.ObserveSubmission("invalid")
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: UserMessage(err)})
		return
	}

	payload, err := h.builder.Build(sub, requestMeta(r))
	if err != nil {
		logger.Error("failed to build lead payload", "error", err)
		h.metrics.ObserveSubmission("error")
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: msgInternalError})
		return
	}

	delivered, failed := 0, 0
	if h.dispatcher != nil {
		// Deliveries outlive a visitor closing the tab.
		for _, res := range h.dispatcher.Dispatch(context.WithoutCancel(r.Context()), payload) {
			if res.Err != nil {
				failed++
			} else {
				delivered++
			}
		}
	}

	logger.Info("lead accepted",
		"lead_id", payload.LeadID,
		"utm_source", payload.UTMSource,
		"delivered", delivered,
		"failed", failed,
	)
	h.metrics.ObserveSubmission("accepted")

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, Response{Success: true, LeadID: payload.LeadID, Message: msgAccepted})
}

// MethodNotAllowed answers any non-POST request to the lead route.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	h.metrics.ObserveSubmission("method_not_allowed")
	writeJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Message: msgMethodNotAllowed})
}

// decodeSubmission requires the body to be exactly one JSON object.
func decodeSubmission(body io.Reader) (*Submission, error) {
	dec := json.NewDecoder(body)
	var sub *Submission
	if err := dec.Decode(&sub); err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errNullSubmission
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return sub, nil
}

func requestMeta(r *http.Request) RequestMeta {
	return RequestMeta{
		ClientIP:  ClientIP(r),
		UserAgent: r.UserAgent(),
		CookieFBP: cookieValue(r, "_fbp"),
		CookieFBC: cookieValue(r, "_fbc"),
	}
}

// ClientIP prefers the connecting address (already rewritten by RealIP when
// behind a proxy) and falls back to Cloudflare's CF-Connecting-IP header.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if ip := net.ParseIP(strings.TrimSpace(r.RemoteAddr)); ip != nil {
		return ip.String()
	}
	return strings.TrimSpace(r.Header.Get("CF-Connecting-IP"))
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
