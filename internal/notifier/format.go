package notifier

import (
	"fmt"
	"strings"
	"time"

	"pr-bump-notifier/internal/domain"
)

const (
	msPerMinute = int64(60 * 1000)
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour

	defaultTitle = "🔔 Daily PR Bump"
)

// CIGlyph возвращает значок статуса CI; всё неизвестное считается ожиданием.
func CIGlyph(status domain.CIStatus) string {
	switch status {
	case domain.CISuccess:
		return "✅"
	case domain.CIFailure, domain.CIError:
		return "❌"
	default:
		return "🟡"
	}
}

// ReviewGlyph возвращает значок итогового состояния ревью.
func ReviewGlyph(state domain.ReviewState) string {
	switch state {
	case domain.ReviewApproved:
		return "🟢"
	case domain.ReviewChangesRequested:
		return "🔴"
	default:
		return "🟡"
	}
}

// AgeDays - возраст в полных сутках (с округлением вниз).
func AgeDays(created, now time.Time) int64 {
	return floorDiv(now.Sub(created).Milliseconds(), msPerDay)
}

// AgeDHM - возраст в виде "1d 1h 0m", разложенный из той же разницы в миллисекундах.
func AgeDHM(created, now time.Time) string {
	diff := now.Sub(created).Milliseconds()

	days := floorDiv(diff, msPerDay)
	hours := floorDiv(diff%msPerDay, msPerHour)
	minutes := floorDiv(diff%msPerHour, msPerMinute)

	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// Size - "+additions / -deletions".
func Size(pr domain.EnrichedPullRequest) string {
	return fmt.Sprintf("+%d / -%d", pr.Additions, pr.Deletions)
}

func reviewerNames(users []domain.User, none string) string {
	if len(users) == 0 {
		return none
	}
	return strings.Join(domain.Logins(users), ", ")
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
