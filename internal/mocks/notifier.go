package mocks

import (
	"context"

	"pr-bump-notifier/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Notifier - мок domain.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Name() string {
	return "mock"
}

func (m *Notifier) Notify(ctx context.Context, webhookURL string, bucket *domain.Bucket) error {
	args := m.Called(ctx, webhookURL, bucket)
	return args.Error(0)
}

// WebhookResolver - резолвер вебхуков на основе карты.
type WebhookResolver map[string]string

func (r WebhookResolver) WebhookURL(destinationID string) string {
	return r[destinationID]
}
