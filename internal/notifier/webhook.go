package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pr-bump-notifier/internal/domain"

	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookClient отправляет JSON на входящие вебхуки чатов, не чаще заданной частоты.
type WebhookClient struct {
	httpClient HTTPClient
	limiter    *rate.Limiter
}

// NewWebhookClient создает клиент; perSecond <= 0 снимает ограничение частоты.
func NewWebhookClient(httpClient HTTPClient, perSecond float64) *WebhookClient {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &WebhookClient{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Post отправляет payload одним POST-запросом. Любой ответ вне 2xx - ошибка доставки.
func (c *WebhookClient) Post(ctx context.Context, webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %w", domain.ErrInvalidPayload, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", domain.ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", domain.ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: status %d: %s", domain.ErrDelivery, resp.StatusCode, bytes.TrimSpace(excerpt))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
