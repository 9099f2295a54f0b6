// Package domain provides the stage-aware follow-up decision rules and
// the pure message templates. Nothing in this package performs I/O; the
// only time dependency is the injected "now".
package domain

import (
	"time"

	leaddomain "roofline_backend/internal/leads/domain"
	"roofline_backend/internal/leads/repository"
)

// Urgency labels attached to batch results for triage.
const (
	UrgencyHigh   = "high"
	UrgencyNormal = "normal"
)

// Rule decides when a lead in a given stage is due for re-engagement.
type Rule struct {
	ThresholdDays int
	FollowUpType  string
	Urgency       string
}

// stageRules is the per-stage follow-up policy. Stages without an entry
// (including both closed stages) are never swept.
var stageRules = map[string]Rule{
	leaddomain.StageNewLead:     {ThresholdDays: 2, FollowUpType: TypeInitialContact, Urgency: UrgencyHigh},
	leaddomain.StageContacted:   {ThresholdDays: 3, FollowUpType: TypeQuoteReminder, Urgency: UrgencyNormal},
	leaddomain.StageQuoteSent:   {ThresholdDays: 5, FollowUpType: TypeQuoteFollowUp, Urgency: UrgencyHigh},
	leaddomain.StageNegotiation: {ThresholdDays: 4, FollowUpType: TypeNegotiationNudge, Urgency: UrgencyHigh},
}

// RuleForStage returns the follow-up rule for a stage, if one exists.
func RuleForStage(stage string) (Rule, bool) {
	rule, ok := stageRules[stage]
	return rule, ok
}

// DaysSinceContact computes whole days elapsed since the lead was last
// contacted, falling back to the creation date for never-contacted leads.
func DaysSinceContact(lead repository.Lead, now time.Time) int {
	reference := lead.CreatedDate
	if lead.LastContactDate != nil {
		reference = *lead.LastContactDate
	}
	return daysBetween(reference, now)
}

// DaysInPipeline computes whole days since the lead entered the funnel.
func DaysInPipeline(lead repository.Lead, now time.Time) int {
	return daysBetween(lead.CreatedDate, now)
}

func daysBetween(from, to time.Time) int {
	elapsed := to.Sub(from)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}
