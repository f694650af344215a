package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"pr-bump-notifier/internal/domain"

	"github.com/google/go-github/v68/github"
)

// MaxPullRequests - размер единственной запрашиваемой страницы списка.
const MaxPullRequests = 100

// MaxReviews - размер страницы событий ревью, максимум GitHub API.
// Более длинная история ревью обрезается, пагинация не поддерживается.
const MaxReviews = 100

const deletedUser = "deleted-user"

// GitHubRepository реализует domain.PRRepository поверх GitHub REST API.
type GitHubRepository struct {
	client *github.Client
}

// NewGitHubClient создает клиент go-github с токеном и, при необходимости, своим base URL.
func NewGitHubClient(baseURL, token string, httpClient *http.Client) (*github.Client, error) {
	client := github.NewClient(httpClient).WithAuthToken(token)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid GITHUB_API_URL: %w", domain.ErrConfig, err)
		}
		client.BaseURL = u
	}

	return client, nil
}

// NewGitHubRepository создает новый экземпляр GitHubRepository.
func NewGitHubRepository(client *github.Client) domain.PRRepository {
	return &GitHubRepository{
		client: client,
	}
}

// ListOpen возвращает открытые пул-реквесты, новые первыми. Только одна страница.
func (r *GitHubRepository) ListOpen(ctx context.Context, repo domain.RepositoryRef) ([]*domain.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: MaxPullRequests},
	}

	pulls, _, err := r.client.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s: %w", repo, err)
	}

	result := make([]*domain.PullRequest, len(pulls))
	for i, pr := range pulls {
		result[i] = toDomainPullRequest(pr)
	}

	return result, nil
}

// GetDetail возвращает размер изменений и запрошенных ревьюверов.
func (r *GitHubRepository) GetDetail(ctx context.Context, repo domain.RepositoryRef, number int) (*domain.PullRequestDetail, error) {
	pr, _, err := r.client.PullRequests.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request %s#%d: %w", repo, number, err)
	}

	return &domain.PullRequestDetail{
		Additions:          pr.GetAdditions(),
		Deletions:          pr.GetDeletions(),
		RequestedReviewers: toDomainUsers(pr.RequestedReviewers),
	}, nil
}

// GetCombinedStatus возвращает агрегированный статус CI для коммита.
func (r *GitHubRepository) GetCombinedStatus(ctx context.Context, repo domain.RepositoryRef, ref string) (domain.CIStatus, error) {
	status, _, err := r.client.Repositories.GetCombinedStatus(ctx, repo.Owner, repo.Name, ref, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get combined status for %s@%s: %w", repo, ref, err)
	}

	return domain.CIStatus(status.GetState()), nil
}

// ListReviews возвращает события ревью в хронологическом порядке.
func (r *GitHubRepository) ListReviews(ctx context.Context, repo domain.RepositoryRef, number int) ([]domain.Review, error) {
	opts := &github.ListOptions{PerPage: MaxReviews}

	reviews, _, err := r.client.PullRequests.ListReviews(ctx, repo.Owner, repo.Name, number, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for %s#%d: %w", repo, number, err)
	}

	result := make([]domain.Review, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, domain.Review{
			Author: review.GetUser().GetLogin(),
			State:  review.GetState(),
		})
	}

	return result, nil
}

func toDomainPullRequest(pr *github.PullRequest) *domain.PullRequest {
	author := domain.User{Login: pr.GetUser().GetLogin()}
	if pr.User == nil {
		author.Login = deletedUser
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	return &domain.PullRequest{
		Number:             pr.GetNumber(),
		Title:              pr.GetTitle(),
		URL:                pr.GetHTMLURL(),
		CreatedAt:          pr.GetCreatedAt().Time,
		Author:             author,
		Labels:             labels,
		Draft:              pr.GetDraft(),
		HeadSHA:            pr.GetHead().GetSHA(),
		RequestedReviewers: toDomainUsers(pr.RequestedReviewers),
	}
}

func toDomainUsers(users []*github.User) []domain.User {
	result := make([]domain.User, 0, len(users))
	for _, u := range users {
		if login := u.GetLogin(); login != "" {
			result = append(result, domain.User{Login: login})
		}
	}
	return result
}
