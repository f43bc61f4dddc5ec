// Package callback delivers fired reminders to an optional outbound
// webhook, for shells that relay notifications to another device.
package callback

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskkeep/infrastructure/circuitbreaker"
	"taskkeep/infrastructure/notify"
)

// Service posts reminder deliveries to a configured URL, signing the body
// when a secret is set and guarding the endpoint with a circuit breaker.
type Service struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	url     string
	secret  string
	logger  *zap.Logger
}

// NewService creates a webhook delivery service. An empty URL disables
// delivery entirely.
func NewService(url, secret string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		url:     url,
		secret:  secret,
		logger:  logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (s *Service) Enabled() bool {
	return s.url != ""
}

// Deliver posts the fired reminder to the webhook URL.
func (s *Service) Deliver(ctx context.Context, d notify.Delivery) error {
	if !s.Enabled() {
		return nil
	}

	if s.breaker != nil {
		return s.breaker.Execute(s.url, func() error {
			return s.post(ctx, d)
		})
	}
	return s.post(ctx, d)
}

func (s *Service) post(ctx context.Context, d notify.Delivery) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode delivery: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Task-ID", d.Payload.Data.TaskID)
	req.Header.Set("X-Reminder-ID", d.ReminderID)
	if s.secret != "" {
		req.Header.Set("X-Signature", s.sign(body))
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	s.logger.Info("Reminder webhook delivered",
		zap.String("task_id", d.Payload.Data.TaskID),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *Service) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
