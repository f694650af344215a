package domain

import "context"

// DeliveryReport описывает результат рассылки по адресатам.
type DeliveryReport struct {
	Sent    []string
	Skipped []string
	Failed  []string
}

// Notifier отрисовывает корзину в формате конкретной платформы и отправляет её на вебхук.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, webhookURL string, bucket *Bucket) error
}

// WebhookResolver возвращает URL вебхука по идентификатору адресата.
type WebhookResolver interface {
	WebhookURL(destinationID string) string
}
