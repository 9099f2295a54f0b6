// Package domain provides the pure sales insights aggregation over the
// lead pipeline. Everything here is computed from a lead snapshot and an
// injected clock; no I/O takes place.
package domain

import (
	"fmt"
	"time"

	followupdomain "roofline_backend/internal/followup/domain"
	leaddomain "roofline_backend/internal/leads/domain"
	"roofline_backend/internal/leads/repository"
)

// Thresholds in cents and days for the pipeline signals.
const (
	urgentQuoteCents    = 2_500_000 // $25,000
	highValueQuoteCents = 3_000_000 // $30,000
	urgentContactDays   = 3
)

// Per-stage days-in-pipeline limits beyond which a lead counts as stagnant.
var stagnantThresholdDays = map[string]int{
	leaddomain.StageNewLead:     3,
	leaddomain.StageContacted:   7,
	leaddomain.StageQuoteSent:   10,
	leaddomain.StageNegotiation: 7,
}

const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityNormal = "normal"
)

// LeadSignal flags one lead needing attention.
type LeadSignal struct {
	LeadID          string `json:"leadId"`
	LeadName        string `json:"leadName"`
	Stage           string `json:"stage"`
	QuoteValueCents int64  `json:"quoteValueCents,omitempty"`
	DaysSince       int    `json:"daysSinceContact"`
	Priority        string `json:"priority,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// Recommendation is an actionable suggestion derived from the pipeline.
type Recommendation struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Insights is the full sales insights payload.
type Insights struct {
	UrgentFollowUps       []LeadSignal     `json:"urgentFollowUps"`
	StagnantLeads         []LeadSignal     `json:"stagnantLeads"`
	HighValueLeads        []LeadSignal     `json:"highValueLeads"`
	FunnelCounts          map[string]int   `json:"funnelCounts"`
	ConversionRate        string           `json:"conversionRate"`
	AverageQuoteCents     int64            `json:"averageQuoteValueCents"`
	TotalLeads            int              `json:"totalLeads"`
	Recommendations       []Recommendation `json:"recommendations"`
	PotentialRevenueCents int64            `json:"potentialRevenueCents"`
}

// Aggregate builds the insights payload from a full lead snapshot.
func Aggregate(leads []repository.Lead, now time.Time) Insights {
	ins := Insights{
		UrgentFollowUps: []LeadSignal{},
		StagnantLeads:   []LeadSignal{},
		HighValueLeads:  []LeadSignal{},
		FunnelCounts:    make(map[string]int),
		Recommendations: []Recommendation{},
		TotalLeads:      len(leads),
	}

	var quoteSumCents int64
	for _, lead := range leads {
		ins.FunnelCounts[lead.Stage]++

		if lead.QuoteValueCents != nil {
			quoteSumCents += *lead.QuoteValueCents
		}

		if leaddomain.IsTerminalStage(lead.Stage) {
			continue
		}

		sinceContact := followupdomain.DaysSinceContact(lead, now)
		inPipeline := followupdomain.DaysInPipeline(lead, now)

		if lead.QuoteValueCents != nil && *lead.QuoteValueCents >= urgentQuoteCents && sinceContact >= urgentContactDays {
			ins.UrgentFollowUps = append(ins.UrgentFollowUps, LeadSignal{
				LeadID:          lead.ID.String(),
				LeadName:        lead.Name,
				Stage:           lead.Stage,
				QuoteValueCents: *lead.QuoteValueCents,
				DaysSince:       sinceContact,
			})
			ins.PotentialRevenueCents += *lead.QuoteValueCents
		}

		if limit, ok := stagnantThresholdDays[lead.Stage]; ok && inPipeline > limit {
			ins.StagnantLeads = append(ins.StagnantLeads, LeadSignal{
				LeadID:    lead.ID.String(),
				LeadName:  lead.Name,
				Stage:     lead.Stage,
				DaysSince: sinceContact,
				Reason:    fmt.Sprintf("%s for %d days", lead.Stage, inPipeline),
			})
		}

		if lead.QuoteValueCents != nil && *lead.QuoteValueCents >= highValueQuoteCents {
			priority := PriorityNormal
			if sinceContact > urgentContactDays {
				priority = PriorityUrgent
			}
			ins.HighValueLeads = append(ins.HighValueLeads, LeadSignal{
				LeadID:          lead.ID.String(),
				LeadName:        lead.Name,
				Stage:           lead.Stage,
				QuoteValueCents: *lead.QuoteValueCents,
				DaysSince:       sinceContact,
				Priority:        priority,
			})
		}
	}

	ins.ConversionRate = conversionRate(
		ins.FunnelCounts[leaddomain.StageClosedWon],
		ins.FunnelCounts[leaddomain.StageNewLead],
	)
	// Averaged over every lead, quoted or not.
	if len(leads) > 0 {
		ins.AverageQuoteCents = quoteSumCents / int64(len(leads))
	}
	ins.Recommendations = recommend(ins)

	return ins
}

// conversionRate formats closed-won over new-lead as a percentage with
// one decimal. No new leads means no measurable rate yet.
func conversionRate(closedWon, newLeads int) string {
	if newLeads == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(closedWon)/float64(newLeads)*100)
}

// recommend applies the independent recommendation rules. Each rule fires
// on its own; a busy pipeline can produce all four.
func recommend(ins Insights) []Recommendation {
	recs := []Recommendation{}

	if n := len(ins.UrgentFollowUps); n > 0 {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh,
			Category: "High-Value Leads",
			Message: fmt.Sprintf("%d high-value lead(s) need immediate follow-up, representing %s in potential revenue",
				n, followupdomain.FormatCurrency(ins.PotentialRevenueCents)),
		})
	}
	if n := len(ins.StagnantLeads); n > 5 {
		recs = append(recs, Recommendation{
			Priority: PriorityMedium,
			Category: "Pipeline Velocity",
			Message:  fmt.Sprintf("%d leads are moving slower than usual; review stalled stages", n),
		})
	}
	if n := ins.FunnelCounts[leaddomain.StageNewLead]; n > 10 {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh,
			Category: "Lead Response",
			Message:  fmt.Sprintf("%d new leads awaiting first contact; prioritize initial outreach", n),
		})
	}
	if n := ins.FunnelCounts[leaddomain.StageQuoteSent]; n > 15 {
		recs = append(recs, Recommendation{
			Priority: PriorityMedium,
			Category: "Quote Conversion",
			Message:  fmt.Sprintf("%d quotes are outstanding; consider a follow-up push", n),
		})
	}

	return recs
}
