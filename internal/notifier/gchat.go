package notifier

import (
	"context"
	"fmt"
	"time"

	"pr-bump-notifier/internal/domain"
)

const (
	gchatCardID    = "daily-pr-bump"
	gchatImageURL  = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"
	gchatImageType = "CIRCLE"
)

// GoogleChatNotifier рисует корзину одной карточкой Cards v2, по секции на пул-реквест.
type GoogleChatNotifier struct {
	webhook *WebhookClient
	now     func() time.Time
}

// NewGoogleChatNotifier создает новый экземпляр GoogleChatNotifier.
func NewGoogleChatNotifier(webhook *WebhookClient, now func() time.Time) *GoogleChatNotifier {
	if now == nil {
		now = time.Now
	}
	return &GoogleChatNotifier{
		webhook: webhook,
		now:     now,
	}
}

// Name возвращает имя платформы для логов.
func (n *GoogleChatNotifier) Name() string { return "gchat" }

// Notify отрисовывает карточку и отправляет её на вебхук.
func (n *GoogleChatNotifier) Notify(ctx context.Context, webhookURL string, bucket *domain.Bucket) error {
	msg, err := n.Render(bucket)
	if err != nil {
		return err
	}
	return n.webhook.Post(ctx, webhookURL, msg)
}

// Render строит карточку для корзины на текущий момент.
func (n *GoogleChatNotifier) Render(bucket *domain.Bucket) (*ChatMessage, error) {
	now := n.now()

	title := defaultTitle
	if bucket.Rule.DisplayName != "" {
		title = bucket.Rule.DisplayName + ": Pending Reviews"
	}

	card := NewCard(gchatCardID).Header(
		title,
		fmt.Sprintf("%d PRs pending attention", len(bucket.Items)),
		gchatImageURL,
		gchatImageType,
	)

	for _, pr := range bucket.Items {
		card.Section(
			fmt.Sprintf("PR #%d: %s", pr.Number, pr.Title),
			TextParagraphWidget(fmt.Sprintf(`<a href="%s">🔗 Open Pull Request</a>`, pr.URL)),
			ColumnsWidget(
				ColumnOf(
					DecoratedTextWidget("PERSON", pr.Author.Login, "Author"),
					DecoratedTextWidget("CLOCK", AgeDHM(pr.CreatedAt, now), "Age"),
				),
				ColumnOf(
					DecoratedTextWidget("DESCRIPTION", Size(pr), "Size"),
					DecoratedTextWidget("", CIGlyph(pr.CIStatus)+" Build", "CI Status"),
				),
			),
			TextParagraphWidget(fmt.Sprintf("<b>%s %s</b>", ReviewGlyph(pr.ReviewState), gchatStatusText(pr))),
			DividerWidget(),
		)
	}

	return card.Build()
}

func gchatStatusText(pr domain.EnrichedPullRequest) string {
	if pr.ReviewState == domain.ReviewPending {
		return "Waiting on: " + reviewerNames(pr.RequestedReviewers, "None")
	}
	return fmt.Sprintf("State: %s", pr.ReviewState)
}
