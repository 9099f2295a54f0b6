package domain

import (
	"testing"
	"time"
)

func TestShouldSuppressRecentSystemMessage(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	recent := []RecentMessage{{
		Content:     "Milestone completed: Shingle Installation",
		CreatedDate: now.Add(-1 * time.Hour),
	}}

	if !ShouldSuppress("Shingle Installation", now, recent) {
		t.Fatal("notification 1h after an identical one should be suppressed")
	}
}

func TestShouldSuppressWindowIsExclusive(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	// Exactly 24h old: outside the window, does not block.
	exact := []RecentMessage{{
		Content:     "Milestone completed: Shingle Installation",
		CreatedDate: now.Add(-24 * time.Hour),
	}}
	if ShouldSuppress("Shingle Installation", now, exact) {
		t.Fatal("message exactly 24h old must not suppress")
	}

	old := []RecentMessage{{
		Content:     "Milestone completed: Shingle Installation",
		CreatedDate: now.Add(-25 * time.Hour),
	}}
	if ShouldSuppress("Shingle Installation", now, old) {
		t.Fatal("message 25h old must not suppress")
	}
}

func TestShouldSuppressIgnoresClientMessages(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	recent := []RecentMessage{{
		Content:      "Thanks for finishing the Shingle Installation!",
		IsFromClient: true,
		CreatedDate:  now.Add(-1 * time.Hour),
	}}

	if ShouldSuppress("Shingle Installation", now, recent) {
		t.Fatal("client messages must never suppress")
	}
}

func TestShouldSuppressRequiresNameMatch(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	recent := []RecentMessage{{
		Content:     "Milestone completed: Gutter Replacement",
		CreatedDate: now.Add(-1 * time.Hour),
	}}

	if ShouldSuppress("Shingle Installation", now, recent) {
		t.Fatal("different milestone must not suppress")
	}
	if ShouldSuppress("", now, recent) {
		t.Fatal("empty milestone name must not suppress")
	}
}
