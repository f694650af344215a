package notifier

import (
	"context"
	"fmt"
	"time"

	"pr-bump-notifier/internal/domain"
)

// SlackNotifier рисует корзину таблицей Block Kit: поля в две колонки и подвал со статусом.
type SlackNotifier struct {
	webhook *WebhookClient
	now     func() time.Time
}

// NewSlackNotifier создает новый экземпляр SlackNotifier.
func NewSlackNotifier(webhook *WebhookClient, now func() time.Time) *SlackNotifier {
	if now == nil {
		now = time.Now
	}
	return &SlackNotifier{
		webhook: webhook,
		now:     now,
	}
}

// Name возвращает имя платформы для логов.
func (n *SlackNotifier) Name() string { return "slack" }

// Notify отрисовывает и отправляет сообщение на вебхук.
func (n *SlackNotifier) Notify(ctx context.Context, webhookURL string, bucket *domain.Bucket) error {
	msg, err := n.Render(bucket)
	if err != nil {
		return err
	}
	return n.webhook.Post(ctx, webhookURL, msg)
}

// Render строит сообщение для корзины на текущий момент.
func (n *SlackNotifier) Render(bucket *domain.Bucket) (*SlackMessage, error) {
	now := n.now()

	title := defaultTitle
	if bucket.Rule.DisplayName != "" {
		title = bucket.Rule.DisplayName + ": Pending Reviews"
	}

	msg := NewSlackMessage().Header(title).Divider()

	for _, pr := range bucket.Items {
		msg.Section(
			Markdown(fmt.Sprintf("👉 *<%s|%s>* (#%d)", pr.URL, pr.Title, pr.Number)),
			Markdown(fmt.Sprintf("👤 *Author:* %s\n⏳ *Age:* %d days", pr.Author.Login, AgeDays(pr.CreatedAt, now))),
			Markdown(fmt.Sprintf("📊 *Size:* `%s`\n🏗 *Build:* %s", Size(pr), CIGlyph(pr.CIStatus))),
		)
		msg.Context(Markdown(slackStatusText(pr)))
		msg.Divider()
	}

	return msg.Build()
}

func slackStatusText(pr domain.EnrichedPullRequest) string {
	if pr.ReviewState == domain.ReviewPending {
		return "👀 *Waiting on:* " + reviewerNames(pr.RequestedReviewers, "_None_")
	}
	return fmt.Sprintf("⚖️ *State:* %s %s", ReviewGlyph(pr.ReviewState), pr.ReviewState)
}
