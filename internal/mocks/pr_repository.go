// Package mocks содержит testify-моки портов домена.
package mocks

import (
	"context"

	"pr-bump-notifier/internal/domain"

	"github.com/stretchr/testify/mock"
)

// PRRepository - мок domain.PRRepository.
type PRRepository struct {
	mock.Mock
}

func (m *PRRepository) ListOpen(ctx context.Context, repo domain.RepositoryRef) ([]*domain.PullRequest, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PullRequest), args.Error(1)
}

func (m *PRRepository) GetDetail(ctx context.Context, repo domain.RepositoryRef, number int) (*domain.PullRequestDetail, error) {
	args := m.Called(ctx, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullRequestDetail), args.Error(1)
}

func (m *PRRepository) GetCombinedStatus(ctx context.Context, repo domain.RepositoryRef, ref string) (domain.CIStatus, error) {
	args := m.Called(ctx, repo, ref)
	return args.Get(0).(domain.CIStatus), args.Error(1)
}

func (m *PRRepository) ListReviews(ctx context.Context, repo domain.RepositoryRef, number int) ([]domain.Review, error) {
	args := m.Called(ctx, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}
