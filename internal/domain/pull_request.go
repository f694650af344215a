package domain

import (
	"context"
	"time"
)

// PullRequest представляет открытый пул-реквест в том виде, в каком его отдаёт список.
type PullRequest struct {
	Number             int
	Title              string
	URL                string
	CreatedAt          time.Time
	Author             User
	Labels             []string
	Draft              bool
	HeadSHA            string
	RequestedReviewers []User
}

// EnrichedPullRequest - пул-реквест, дополненный размером, статусом CI и состоянием ревью.
type EnrichedPullRequest struct {
	PullRequest
	Additions   int
	Deletions   int
	CIStatus    CIStatus
	ReviewState ReviewState
	Repository  string
}

// PullRequestDetail содержит поля, доступные только в детальном ответе.
type PullRequestDetail struct {
	Additions          int
	Deletions          int
	RequestedReviewers []User
}

// Review - одно событие ревью.
type Review struct {
	Author string
	State  string
}

// CIStatus - агрегированный статус коммита.
type CIStatus string

const (
	CISuccess CIStatus = "success"
	CIFailure CIStatus = "failure"
	CIPending CIStatus = "pending"
	CIError   CIStatus = "error"
)

// ReviewState - итоговое состояние ревью пул-реквеста.
type ReviewState string

const (
	ReviewPending          ReviewState = "PENDING"
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
)

// PRRepository определяет контракт для чтения пул-реквестов с хостинга кода.
type PRRepository interface {
	ListOpen(ctx context.Context, repo RepositoryRef) ([]*PullRequest, error)
	GetDetail(ctx context.Context, repo RepositoryRef, number int) (*PullRequestDetail, error)
	GetCombinedStatus(ctx context.Context, repo RepositoryRef, ref string) (CIStatus, error)
	ListReviews(ctx context.Context, repo RepositoryRef, number int) ([]Review, error)
}
