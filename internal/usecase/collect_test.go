package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pr-bump-notifier/internal/domain"
	"pr-bump-notifier/internal/mocks"
	"pr-bump-notifier/internal/testutil"
	"pr-bump-notifier/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	repoA   = domain.RepositoryRef{Owner: "acme", Name: "api"}
	repoB   = domain.RepositoryRef{Owner: "acme", Name: "web"}
	created = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
)

func pull(number int, sha string, labels ...string) *domain.PullRequest {
	return &domain.PullRequest{
		Number:    number,
		Title:     "PR " + sha,
		URL:       "https://github.com/pr/" + sha,
		CreatedAt: created,
		Author:    domain.User{Login: "alice"},
		Labels:    labels,
		HeadSHA:   sha,
	}
}

func expectEnrichment(prRepo *mocks.PRRepository, repo domain.RepositoryRef, pr *domain.PullRequest, status domain.CIStatus, reviews []domain.Review) {
	prRepo.On("GetDetail", mock.Anything, repo, pr.Number).Return(&domain.PullRequestDetail{
		Additions:          10 * pr.Number,
		Deletions:          pr.Number,
		RequestedReviewers: []domain.User{{Login: "bob"}},
	}, nil)
	prRepo.On("GetCombinedStatus", mock.Anything, repo, pr.HeadSHA).Return(status, nil)
	prRepo.On("ListReviews", mock.Anything, repo, pr.Number).Return(reviews, nil)
}

func backendTable() *domain.RoutingTable {
	return &domain.RoutingTable{Rules: []domain.RoutingRule{backendRule}}
}

func TestCollectUseCase_NoMatchingLabel(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{pull(1, "s1", "docs")}, nil)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA})

	require.NoError(t, err)
	assert.True(t, buckets.IsEmpty())
	prRepo.AssertExpectations(t)
	prRepo.AssertNotCalled(t, "GetDetail", mock.Anything, mock.Anything, mock.Anything)
}

func TestCollectUseCase_MatchedItemIsEnriched(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	pr := pull(1, "s1", "backend")
	pr.RequestedReviewers = []domain.User{{Login: "stale"}}
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{pr}, nil)
	expectEnrichment(prRepo, repoA, pr, domain.CIFailure, []domain.Review{
		{Author: "bob", State: "APPROVED"},
		{Author: "carol", State: "CHANGES_REQUESTED"},
	})

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA})

	require.NoError(t, err)
	require.Equal(t, []string{"D1"}, buckets.Keys())

	bucket, ok := buckets.Get("D1")
	require.True(t, ok)
	assert.Equal(t, backendRule, bucket.Rule)
	require.Len(t, bucket.Items, 1)

	item := bucket.Items[0]
	assert.Equal(t, 1, item.Number)
	assert.Equal(t, 10, item.Additions)
	assert.Equal(t, 1, item.Deletions)
	assert.Equal(t, domain.CIFailure, item.CIStatus)
	assert.Equal(t, domain.ReviewChangesRequested, item.ReviewState)
	assert.Equal(t, []domain.User{{Login: "bob"}}, item.RequestedReviewers)
	assert.Equal(t, "acme/api", item.Repository)

	prRepo.AssertExpectations(t)
}

func TestCollectUseCase_SkipsDrafts(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	draft := pull(1, "s1", "backend")
	draft.Draft = true
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{draft}, nil)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA})

	require.NoError(t, err)
	assert.True(t, buckets.IsEmpty())
	prRepo.AssertNotCalled(t, "GetDetail", mock.Anything, mock.Anything, mock.Anything)
}

func TestCollectUseCase_ListFailureIsolatedPerRepository(t *testing.T) {
	ctx := context.Background()
	logger, hook := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	pr := pull(2, "s2", "backend")
	prRepo.On("ListOpen", ctx, repoA).Return(nil, errors.New("502 bad gateway"))
	prRepo.On("ListOpen", ctx, repoB).Return([]*domain.PullRequest{pr}, nil)
	expectEnrichment(prRepo, repoB, pr, domain.CISuccess, nil)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA, repoB})

	require.NoError(t, err)
	bucket, ok := buckets.Get("D1")
	require.True(t, ok)
	require.Len(t, bucket.Items, 1)
	assert.Equal(t, "acme/web", bucket.Items[0].Repository)

	var fetchErr error
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			fetchErr, _ = entry.Data[logrus.ErrorKey].(error)
		}
	}
	assert.ErrorIs(t, fetchErr, domain.ErrFetch)
	prRepo.AssertExpectations(t)
}

func TestCollectUseCase_EnrichFailureIsolatedPerItem(t *testing.T) {
	ctx := context.Background()
	logger, hook := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	broken := pull(1, "s1", "backend")
	healthy := pull(2, "s2", "backend")
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{broken, healthy}, nil)

	prRepo.On("GetDetail", mock.Anything, repoA, 1).Return(&domain.PullRequestDetail{}, nil)
	prRepo.On("GetCombinedStatus", mock.Anything, repoA, "s1").Return(domain.CIStatus(""), errors.New("status unavailable"))
	prRepo.On("ListReviews", mock.Anything, repoA, 1).Return([]domain.Review{}, nil)
	expectEnrichment(prRepo, repoA, healthy, domain.CIPending, nil)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA})

	require.NoError(t, err)
	bucket, ok := buckets.Get("D1")
	require.True(t, ok)
	require.Len(t, bucket.Items, 1)
	assert.Equal(t, 2, bucket.Items[0].Number)
	assert.Equal(t, domain.ReviewPending, bucket.Items[0].ReviewState)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)

	var enrichErr error
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			enrichErr, _ = e.Data[logrus.ErrorKey].(error)
		}
	}
	assert.ErrorIs(t, enrichErr, domain.ErrEnrich)
}

func TestCollectUseCase_FanOutAndDedup(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}

	sameDestination := domain.RoutingRule{Label: "api", DestinationID: "D1", DisplayName: "Backend Team"}
	table := &domain.RoutingTable{Rules: []domain.RoutingRule{backendRule, urgentRule, sameDestination}}
	uc := usecase.NewCollectUseCase(prRepo, table, logger)

	pr := pull(1, "s1", "backend", "urgent", "api")
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{pr}, nil)
	expectEnrichment(prRepo, repoA, pr, domain.CISuccess, nil)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA})

	require.NoError(t, err)
	assert.Equal(t, []string{"D1", "D2"}, buckets.Keys())

	d1, _ := buckets.Get("D1")
	d2, _ := buckets.Get("D2")
	assert.Len(t, d1.Items, 1)
	assert.Len(t, d2.Items, 1)
	prRepo.AssertNumberOfCalls(t, "GetDetail", 1)
}

func TestCollectUseCase_MultipleRepositoriesKeepFetchOrder(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	first := pull(5, "a5", "backend")
	second := pull(5, "b5", "backend")
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{first}, nil)
	prRepo.On("ListOpen", ctx, repoB).Return([]*domain.PullRequest{second}, nil)
	expectEnrichment(prRepo, repoA, first, domain.CISuccess, nil)
	expectEnrichment(prRepo, repoB, second, domain.CISuccess, nil)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA, repoB})

	require.NoError(t, err)
	bucket, _ := buckets.Get("D1")
	require.Len(t, bucket.Items, 2)
	assert.Equal(t, "acme/api", bucket.Items[0].Repository)
	assert.Equal(t, "acme/web", bucket.Items[1].Repository)
}

func TestCollectUseCase_CollectRawSkipsEnrichment(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	pr := pull(3, "s3", "backend")
	pr.RequestedReviewers = []domain.User{{Login: "dave"}}
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{pr}, nil)

	buckets, err := uc.CollectRaw(ctx, []domain.RepositoryRef{repoA})

	require.NoError(t, err)
	bucket, ok := buckets.Get("D1")
	require.True(t, ok)
	assert.Equal(t, []domain.User{{Login: "dave"}}, bucket.Items[0].RequestedReviewers)
	prRepo.AssertNotCalled(t, "GetDetail", mock.Anything, mock.Anything, mock.Anything)
	prRepo.AssertNotCalled(t, "ListReviews", mock.Anything, mock.Anything, mock.Anything)
}

func TestCollectUseCase_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, buckets)
	prRepo.AssertNotCalled(t, "ListOpen", mock.Anything, mock.Anything)
}

func TestCollectUseCase_CancelledDuringEnrichment(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger, hook := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	first := pull(1, "s1", "backend")
	second := pull(2, "s2", "backend")
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{first, second}, nil)
	prRepo.On("GetDetail", mock.Anything, repoA, 1).Return(&domain.PullRequestDetail{}, nil)
	prRepo.On("ListReviews", mock.Anything, repoA, 1).Return([]domain.Review{}, nil)
	prRepo.On("GetCombinedStatus", mock.Anything, repoA, "s1").
		Run(func(mock.Arguments) { cancel() }).
		Return(domain.CIStatus(""), context.Canceled)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, buckets)
	prRepo.AssertNotCalled(t, "GetDetail", mock.Anything, repoA, 2)

	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, entry.Level, entry.Message)
	}
}

func TestCollectUseCase_DuplicateRepositoryProcessedOnce(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutil.NewLogger()
	prRepo := &mocks.PRRepository{}
	uc := usecase.NewCollectUseCase(prRepo, backendTable(), logger)

	pr := pull(1, "s1", "backend")
	prRepo.On("ListOpen", ctx, repoA).Return([]*domain.PullRequest{pr}, nil)
	expectEnrichment(prRepo, repoA, pr, domain.CISuccess, nil)

	buckets, err := uc.Collect(ctx, []domain.RepositoryRef{repoA, repoA})

	require.NoError(t, err)
	bucket, ok := buckets.Get("D1")
	require.True(t, ok)
	assert.Len(t, bucket.Items, 1)
	prRepo.AssertNumberOfCalls(t, "ListOpen", 1)
	prRepo.AssertNumberOfCalls(t, "GetDetail", 1)
}
