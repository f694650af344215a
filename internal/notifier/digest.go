package notifier

import (
	"context"
	"fmt"
	"time"

	"pr-bump-notifier/internal/domain"
)

// DigestNotifier - короткая ежедневная сводка для Slack без размера, CI и ревью.
type DigestNotifier struct {
	webhook *WebhookClient
	now     func() time.Time
}

// NewDigestNotifier создает новый экземпляр DigestNotifier.
func NewDigestNotifier(webhook *WebhookClient, now func() time.Time) *DigestNotifier {
	if now == nil {
		now = time.Now
	}
	return &DigestNotifier{
		webhook: webhook,
		now:     now,
	}
}

// Name возвращает имя платформы для логов.
func (n *DigestNotifier) Name() string { return "slack-digest" }

// Notify отрисовывает сводку и отправляет её на вебхук.
func (n *DigestNotifier) Notify(ctx context.Context, webhookURL string, bucket *domain.Bucket) error {
	msg, err := n.Render(bucket)
	if err != nil {
		return err
	}
	return n.webhook.Post(ctx, webhookURL, msg)
}

// Render строит сводку: одна секция на пул-реквест, разделители между ними.
func (n *DigestNotifier) Render(bucket *domain.Bucket) (*SlackMessage, error) {
	now := n.now()

	title := defaultTitle
	if bucket.Rule.DisplayName != "" {
		title = bucket.Rule.DisplayName + " - PR Bump"
	}

	msg := NewSlackMessage().Header(title).Divider()

	for _, pr := range bucket.Items {
		msg.Section(Markdown(fmt.Sprintf(
			"*<%s|%s>* (#%d)\n👤 *Author:* %s | ⏳ *Age:* %d days\n👀 *Waiting on:* %s",
			pr.URL, pr.Title, pr.Number,
			pr.Author.Login, AgeDays(pr.CreatedAt, now),
			reviewerNames(pr.RequestedReviewers, "_None_"),
		)))
		msg.Divider()
	}

	return msg.Build()
}
