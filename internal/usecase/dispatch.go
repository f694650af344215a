package usecase

import (
	"context"

	"pr-bump-notifier/internal/domain"

	"github.com/sirupsen/logrus"
)

// DispatchUseCase рассылает корзины через выбранную платформу.
type DispatchUseCase struct {
	notifier domain.Notifier
	resolver domain.WebhookResolver
	logger   logrus.FieldLogger
}

// NewDispatchUseCase создает новый экземпляр DispatchUseCase.
func NewDispatchUseCase(notifier domain.Notifier, resolver domain.WebhookResolver, logger logrus.FieldLogger) domain.DispatchUseCase {
	return &DispatchUseCase{
		notifier: notifier,
		resolver: resolver,
		logger:   logger,
	}
}

// Dispatch отправляет по одному сообщению на адресата в порядке вставки корзин.
// Ошибка доставки одному адресату не мешает остальным.
func (uc *DispatchUseCase) Dispatch(ctx context.Context, buckets *domain.Buckets) *domain.DeliveryReport {
	report := &domain.DeliveryReport{}

	buckets.Each(func(destinationID string, bucket *domain.Bucket) {
		name := bucket.Rule.DisplayName
		if name == "" {
			name = destinationID
		}

		logEntry := uc.logger.WithFields(logrus.Fields{
			"platform":      uc.notifier.Name(),
			"destination":   destinationID,
			"channel":       name,
			"pull_requests": len(bucket.Items),
		})

		webhookURL := uc.resolver.WebhookURL(destinationID)
		if webhookURL == "" {
			logEntry.Debug("Webhook is not configured, skipping destination")
			report.Skipped = append(report.Skipped, name)
			return
		}

		if err := uc.notifier.Notify(ctx, webhookURL, bucket); err != nil {
			logEntry.WithError(err).Error("Failed to send notification")
			report.Failed = append(report.Failed, name)
			return
		}

		logEntry.Info("Notification sent")
		report.Sent = append(report.Sent, name)
	})

	return report
}
