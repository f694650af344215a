package notifier_test

import (
	"testing"
	"time"

	"pr-bump-notifier/internal/domain"
	"pr-bump-notifier/internal/notifier"

	"github.com/stretchr/testify/assert"
)

var (
	createdAt = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	renderAt  = createdAt.Add(25 * time.Hour)
)

func fixedNow() time.Time { return renderAt }

func TestCIGlyph(t *testing.T) {
	testCases := []struct {
		status   domain.CIStatus
		expected string
	}{
		{domain.CISuccess, "✅"},
		{domain.CIFailure, "❌"},
		{domain.CIError, "❌"},
		{domain.CIPending, "🟡"},
		{domain.CIStatus("queued"), "🟡"},
		{domain.CIStatus("neutral"), "🟡"},
		{domain.CIStatus(""), "🟡"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, notifier.CIGlyph(tc.status))
		})
	}
}

func TestReviewGlyph(t *testing.T) {
	assert.Equal(t, "🟢", notifier.ReviewGlyph(domain.ReviewApproved))
	assert.Equal(t, "🔴", notifier.ReviewGlyph(domain.ReviewChangesRequested))
	assert.Equal(t, "🟡", notifier.ReviewGlyph(domain.ReviewPending))
}

func TestAge(t *testing.T) {
	testCases := []struct {
		name string
		age  time.Duration
		days int64
		dhm  string
	}{
		{"Fresh", 0, 0, "0d 0h 0m"},
		{"Almost a day", 23*time.Hour + 59*time.Minute + 59*time.Second, 0, "0d 23h 59m"},
		{"Day and an hour", 25 * time.Hour, 1, "1d 1h 0m"},
		{"Week", 7*24*time.Hour + 30*time.Minute, 7, "7d 0h 30m"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			now := createdAt.Add(tc.age)
			assert.Equal(t, tc.days, notifier.AgeDays(createdAt, now))
			assert.Equal(t, tc.dhm, notifier.AgeDHM(createdAt, now))
		})
	}
}

func TestAgeDays_FutureTimestampRoundsDown(t *testing.T) {
	assert.Equal(t, int64(-1), notifier.AgeDays(createdAt.Add(time.Minute), createdAt))
}

func TestSize(t *testing.T) {
	pr := domain.EnrichedPullRequest{Additions: 120, Deletions: 30}
	assert.Equal(t, "+120 / -30", notifier.Size(pr))
	assert.Equal(t, "+0 / -0", notifier.Size(domain.EnrichedPullRequest{}))
}
