package notifier_test

import (
	"pr-bump-notifier/internal/domain"
)

func pendingPR() domain.EnrichedPullRequest {
	return domain.EnrichedPullRequest{
		PullRequest: domain.PullRequest{
			Number:             42,
			Title:              "Add cache",
			URL:                "https://github.com/acme/api/pull/42",
			CreatedAt:          createdAt,
			Author:             domain.User{Login: "alice"},
			Labels:             []string{"backend"},
			RequestedReviewers: []domain.User{{Login: "bob"}, {Login: "carol"}},
		},
		Additions:   120,
		Deletions:   30,
		CIStatus:    domain.CISuccess,
		ReviewState: domain.ReviewPending,
		Repository:  "acme/api",
	}
}

func approvedPR() domain.EnrichedPullRequest {
	pr := pendingPR()
	pr.Number = 43
	pr.Title = "Fix race"
	pr.URL = "https://github.com/acme/api/pull/43"
	pr.RequestedReviewers = nil
	pr.CIStatus = domain.CIFailure
	pr.ReviewState = domain.ReviewApproved
	return pr
}

func bucketOf(displayName string, items ...domain.EnrichedPullRequest) *domain.Bucket {
	return &domain.Bucket{
		Rule:  domain.RoutingRule{Label: "backend", DestinationID: "D1", DisplayName: displayName},
		Items: items,
	}
}
