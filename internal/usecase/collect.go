package usecase

import (
	"context"
	"fmt"

	"pr-bump-notifier/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CollectUseCase собирает открытые пул-реквесты и раскладывает их по адресатам.
type CollectUseCase struct {
	prRepo domain.PRRepository
	table  *domain.RoutingTable
	logger logrus.FieldLogger
}

// NewCollectUseCase создает новый экземпляр CollectUseCase.
func NewCollectUseCase(prRepo domain.PRRepository, table *domain.RoutingTable, logger logrus.FieldLogger) domain.CollectUseCase {
	return &CollectUseCase{
		prRepo: prRepo,
		table:  table,
		logger: logger,
	}
}

type enrichFunc func(ctx context.Context, repo domain.RepositoryRef, pr *domain.PullRequest) (*domain.EnrichedPullRequest, error)

// Collect обходит репозитории по порядку, обогащает подходящие пул-реквесты и
// раскладывает их по корзинам. Ошибка списка пропускает репозиторий, ошибка
// обогащения пропускает один пул-реквест. Пустой результат - это buckets.IsEmpty().
// Ошибкой возвращается только отмена контекста, в том числе посреди обогащения.
// Повторно указанный репозиторий обрабатывается один раз.
func (uc *CollectUseCase) Collect(ctx context.Context, repos []domain.RepositoryRef) (*domain.Buckets, error) {
	return uc.collect(ctx, repos, uc.enrich)
}

// CollectRaw работает как Collect, но без запросов деталей.
func (uc *CollectUseCase) CollectRaw(ctx context.Context, repos []domain.RepositoryRef) (*domain.Buckets, error) {
	return uc.collect(ctx, repos, func(_ context.Context, repo domain.RepositoryRef, pr *domain.PullRequest) (*domain.EnrichedPullRequest, error) {
		return &domain.EnrichedPullRequest{PullRequest: *pr, Repository: repo.String()}, nil
	})
}

func (uc *CollectUseCase) collect(ctx context.Context, repos []domain.RepositoryRef, enrich enrichFunc) (*domain.Buckets, error) {
	buckets := domain.NewBuckets()
	failedRepos, failedItems := 0, 0
	seen := make(map[domain.RepositoryRef]struct{}, len(repos))

	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logEntry := uc.logger.WithField("repository", repo.String())

		// Повтор репозитория в списке дал бы те же пул-реквесты
		if _, ok := seen[repo]; ok {
			logEntry.Debug("Repository already processed in this run, skipping")
			continue
		}
		seen[repo] = struct{}{}

		logEntry.Info("Fetching pull requests")

		// 1. Список открытых пул-реквестов, одна страница
		pulls, err := uc.prRepo.ListOpen(ctx, repo)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			failedRepos++
			logEntry.WithError(fmt.Errorf("%w: %w", domain.ErrFetch, err)).Error("Failed to list pull requests, skipping repository")
			continue
		}

		for _, pr := range pulls {
			// 2. Черновики не уведомляем
			if pr.Draft {
				continue
			}

			// 3. Подбираем правила по меткам
			rules := MatchRules(pr.Labels, uc.table)
			if len(rules) == 0 {
				continue
			}

			prEntry := logEntry.WithField("pr_number", pr.Number)
			prEntry.Debug("Fetching pull request details")

			// 4. Обогащаем только подошедшие пул-реквесты
			enriched, err := enrich(ctx, repo, pr)
			if err != nil {
				// Отмена запуска - не ошибка отдельного пул-реквеста
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				failedItems++
				prEntry.WithError(err).Error("Failed to enrich pull request, skipping")
				continue
			}

			// 5. Кладём во все подошедшие корзины
			for _, rule := range rules {
				buckets.Add(rule, *enriched)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"destinations":         buckets.Len(),
		"failed_repos":         failedRepos,
		"failed_pull_requests": failedItems,
	}).Info("Pull requests collected")

	return buckets, nil
}

// enrich параллельно запрашивает детали, статус CI и ревью; нужны все три ответа.
func (uc *CollectUseCase) enrich(ctx context.Context, repo domain.RepositoryRef, pr *domain.PullRequest) (*domain.EnrichedPullRequest, error) {
	var (
		detail  *domain.PullRequestDetail
		status  domain.CIStatus
		reviews []domain.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = uc.prRepo.GetDetail(gctx, repo, pr.Number)
		return err
	})
	g.Go(func() error {
		var err error
		status, err = uc.prRepo.GetCombinedStatus(gctx, repo, pr.HeadSHA)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = uc.prRepo.ListReviews(gctx, repo, pr.Number)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s#%d: %w", domain.ErrEnrich, repo, pr.Number, err)
	}

	enriched := &domain.EnrichedPullRequest{
		PullRequest: *pr,
		Additions:   detail.Additions,
		Deletions:   detail.Deletions,
		CIStatus:    status,
		ReviewState: ReduceReviewState(reviews),
		Repository:  repo.String(),
	}
	enriched.RequestedReviewers = detail.RequestedReviewers

	return enriched, nil
}
