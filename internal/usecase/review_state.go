package usecase

import "pr-bump-notifier/internal/domain"

// ReduceReviewState сворачивает события ревью в одно состояние.
// Для каждого автора учитывается только последнее событие, затем
// CHANGES_REQUESTED важнее APPROVED, а всё прочее даёт PENDING.
func ReduceReviewState(reviews []domain.Review) domain.ReviewState {
	latest := make(map[string]string, len(reviews))
	for _, r := range reviews {
		if r.Author == "" {
			continue
		}
		latest[r.Author] = r.State
	}

	approved := false
	for _, state := range latest {
		switch domain.ReviewState(state) {
		case domain.ReviewChangesRequested:
			return domain.ReviewChangesRequested
		case domain.ReviewApproved:
			approved = true
		}
	}

	if approved {
		return domain.ReviewApproved
	}
	return domain.ReviewPending
}
