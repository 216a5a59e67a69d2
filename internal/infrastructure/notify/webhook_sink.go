package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"github.com/riskibarqy/kickabout/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errWebhookTransient = crerr.New("notification webhook transient failure")

type WebhookSinkConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.Config
}

// WebhookSink POSTs each event as JSON. Network errors and retryable
// statuses count against the circuit breaker; other 4xx answers do not.
type WebhookSink struct {
	client  *http.Client
	url     string
	token   string
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewWebhookSink(cfg WebhookSinkConfig, logger *logging.Logger) (*WebhookSink, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookSink{
		client:  &http.Client{Timeout: timeout},
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		logger:  logger.Named("notify.webhook"),
	}, nil
}

func (s *WebhookSink) Send(ctx context.Context, event notification.Event) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(event); err != nil {
		return crerr.Wrapf(err, "marshal notification event type=%s", event.Type)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notify.event_type", string(event.Type)),
			attribute.String("notify.webhook_url", s.url),
		)
	}

	// Permanent rejections are returned to the caller without tripping
	// the breaker.
	var rejected error
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		status, body, err := s.post(ctx, buf.B)
		if err != nil {
			return fmt.Errorf("%w: post event type=%s: %v", errWebhookTransient, event.Type, err)
		}
		if status/100 == 2 {
			return nil
		}
		if isRetryableStatus(status) {
			return fmt.Errorf("%w: post event type=%s status=%d body=%s", errWebhookTransient, event.Type, status, body)
		}
		rejected = crerr.Newf("notification webhook rejected event type=%s status=%d body=%s", event.Type, status, body)
		return nil
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			s.logger.WarnContext(ctx, "notification webhook circuit breaker rejected request", "state", string(s.breaker.State()))
			return fmt.Errorf("notification webhook is temporarily unavailable: %w", err)
		}
		return err
	}
	if rejected != nil {
		return rejected
	}

	s.logger.DebugContext(ctx, "notification delivered", "event_type", string(event.Type), "user_id", event.UserID)
	return nil
}

func (s *WebhookSink) post(ctx context.Context, payload []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return 0, "", crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, strings.TrimSpace(string(raw)), nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}
