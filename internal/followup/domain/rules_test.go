package domain

import (
	"testing"
	"time"

	leaddomain "roofline_backend/internal/leads/domain"
	"roofline_backend/internal/leads/repository"
)

func TestRuleForStage(t *testing.T) {
	cases := []struct {
		stage    string
		days     int
		ftype    string
		urgency  string
		expected bool
	}{
		{leaddomain.StageNewLead, 2, TypeInitialContact, UrgencyHigh, true},
		{leaddomain.StageContacted, 3, TypeQuoteReminder, UrgencyNormal, true},
		{leaddomain.StageQuoteSent, 5, TypeQuoteFollowUp, UrgencyHigh, true},
		{leaddomain.StageNegotiation, 4, TypeNegotiationNudge, UrgencyHigh, true},
		{leaddomain.StageClosedWon, 0, "", "", false},
		{leaddomain.StageClosedLost, 0, "", "", false},
		{"unknown", 0, "", "", false},
	}
	for _, tc := range cases {
		rule, ok := RuleForStage(tc.stage)
		if ok != tc.expected {
			t.Fatalf("RuleForStage(%q) ok = %v, want %v", tc.stage, ok, tc.expected)
		}
		if !ok {
			continue
		}
		if rule.ThresholdDays != tc.days || rule.FollowUpType != tc.ftype || rule.Urgency != tc.urgency {
			t.Fatalf("RuleForStage(%q) = %+v, want {%d %s %s}", tc.stage, rule, tc.days, tc.ftype, tc.urgency)
		}
	}
}

func TestDaysSinceContactPrefersLastContact(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -3)

	lead := repository.Lead{
		CreatedDate:     now.AddDate(0, 0, -30),
		LastContactDate: &last,
	}
	if got := DaysSinceContact(lead, now); got != 3 {
		t.Fatalf("DaysSinceContact = %d, want 3", got)
	}
}

func TestDaysSinceContactFallsBackToCreated(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	lead := repository.Lead{CreatedDate: now.AddDate(0, 0, -7)}
	if got := DaysSinceContact(lead, now); got != 7 {
		t.Fatalf("DaysSinceContact = %d, want 7", got)
	}
}

func TestDaysBetweenFloorsPartialDays(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	// 2 days and 23 hours ago still counts as 2 days.
	last := now.Add(-(71 * time.Hour))
	lead := repository.Lead{CreatedDate: last}
	if got := DaysSinceContact(lead, now); got != 2 {
		t.Fatalf("DaysSinceContact = %d, want 2", got)
	}

	// A future timestamp never yields a negative count.
	future := now.Add(6 * time.Hour)
	lead = repository.Lead{CreatedDate: future}
	if got := DaysSinceContact(lead, now); got != 0 {
		t.Fatalf("DaysSinceContact = %d, want 0", got)
	}
}
