package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	leaddomain "roofline_backend/internal/leads/domain"
	"roofline_backend/internal/leads/repository"
)

func cents(v int64) *int64 { return &v }

func lead(name, stage string, quote *int64, createdDaysAgo, contactDaysAgo int, now time.Time) repository.Lead {
	l := repository.Lead{
		ID:              uuid.New(),
		Name:            name,
		Stage:           stage,
		QuoteValueCents: quote,
		CreatedDate:     now.AddDate(0, 0, -createdDaysAgo),
	}
	if contactDaysAgo >= 0 {
		t := now.AddDate(0, 0, -contactDaysAgo)
		l.LastContactDate = &t
	}
	return l
}

func TestAggregateUrgentFollowUps(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	leads := []repository.Lead{
		// $28k, 4 days silent: urgent.
		lead("Urgent Uma", leaddomain.StageQuoteSent, cents(2_800_000), 20, 4, now),
		// $28k but contacted yesterday: not urgent.
		lead("Recent Ray", leaddomain.StageQuoteSent, cents(2_800_000), 20, 1, now),
		// 5 days silent but only $10k: not urgent.
		lead("Small Sam", leaddomain.StageQuoteSent, cents(1_000_000), 20, 5, now),
		// Would qualify, but the deal is closed.
		lead("Won Wendy", leaddomain.StageClosedWon, cents(4_000_000), 40, 10, now),
	}

	ins := Aggregate(leads, now)

	if len(ins.UrgentFollowUps) != 1 {
		t.Fatalf("urgent count = %d, want 1", len(ins.UrgentFollowUps))
	}
	if ins.UrgentFollowUps[0].LeadName != "Urgent Uma" {
		t.Fatalf("urgent lead = %q", ins.UrgentFollowUps[0].LeadName)
	}
	if ins.PotentialRevenueCents != 2_800_000 {
		t.Fatalf("potential revenue = %d, want 2800000", ins.PotentialRevenueCents)
	}
}

func TestAggregateStagnantLeads(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	leads := []repository.Lead{
		// quote_sent for 11 days exceeds the 10-day limit.
		lead("Stale Stan", leaddomain.StageQuoteSent, nil, 11, 2, now),
		// quote_sent for exactly 10 days is still within the limit.
		lead("Border Bea", leaddomain.StageQuoteSent, nil, 10, 2, now),
		// new_lead for 4 days exceeds the 3-day limit.
		lead("New Nora", leaddomain.StageNewLead, nil, 4, -1, now),
	}

	ins := Aggregate(leads, now)

	if len(ins.StagnantLeads) != 2 {
		t.Fatalf("stagnant count = %d, want 2", len(ins.StagnantLeads))
	}

	var stan *LeadSignal
	for i := range ins.StagnantLeads {
		if ins.StagnantLeads[i].LeadName == "Stale Stan" {
			stan = &ins.StagnantLeads[i]
		}
	}
	if stan == nil {
		t.Fatal("Stale Stan not flagged")
	}
	if stan.Reason != "quote_sent for 11 days" {
		t.Fatalf("reason = %q", stan.Reason)
	}
}

func TestAggregateHighValuePriority(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	leads := []repository.Lead{
		// $35k, 5 days silent: urgent priority.
		lead("Silent Sia", leaddomain.StageNegotiation, cents(3_500_000), 20, 5, now),
		// $35k, contacted today: normal priority.
		lead("Fresh Finn", leaddomain.StageNegotiation, cents(3_500_000), 20, 0, now),
	}

	ins := Aggregate(leads, now)

	if len(ins.HighValueLeads) != 2 {
		t.Fatalf("high value count = %d, want 2", len(ins.HighValueLeads))
	}
	byName := map[string]string{}
	for _, s := range ins.HighValueLeads {
		byName[s.LeadName] = s.Priority
	}
	if byName["Silent Sia"] != PriorityUrgent {
		t.Fatalf("Silent Sia priority = %q, want urgent", byName["Silent Sia"])
	}
	if byName["Fresh Finn"] != PriorityNormal {
		t.Fatalf("Fresh Finn priority = %q, want normal", byName["Fresh Finn"])
	}
}

func TestConversionRate(t *testing.T) {
	if got := conversionRate(1, 4); got != "25.0%" {
		t.Fatalf("conversionRate(1,4) = %q, want 25.0%%", got)
	}
	if got := conversionRate(0, 0); got != "0%" {
		t.Fatalf("conversionRate(0,0) = %q, want 0%%", got)
	}
	if got := conversionRate(3, 0); got != "0%" {
		t.Fatalf("conversionRate(3,0) = %q, want 0%%", got)
	}
}

func TestAggregateEmptyPipeline(t *testing.T) {
	ins := Aggregate(nil, time.Now())

	if ins.TotalLeads != 0 {
		t.Fatalf("total = %d, want 0", ins.TotalLeads)
	}
	if ins.ConversionRate != "0%" {
		t.Fatalf("conversion rate = %q, want 0%%", ins.ConversionRate)
	}
	if ins.AverageQuoteCents != 0 {
		t.Fatalf("average quote = %d, want 0", ins.AverageQuoteCents)
	}
	if len(ins.Recommendations) != 0 {
		t.Fatalf("recommendations = %v, want none", ins.Recommendations)
	}
}

func TestRecommendationsFireIndependently(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	var leads []repository.Lead
	// 12 new leads trips Lead Response; they are all also stagnant
	// (new_lead for 5 days), tripping Pipeline Velocity.
	for i := 0; i < 12; i++ {
		leads = append(leads, lead("New", leaddomain.StageNewLead, nil, 5, -1, now))
	}
	// One urgent high-value lead trips High-Value Leads.
	leads = append(leads, lead("Urgent", leaddomain.StageQuoteSent, cents(2_600_000), 8, 4, now))

	ins := Aggregate(leads, now)

	categories := map[string]Recommendation{}
	for _, r := range ins.Recommendations {
		categories[r.Category] = r
	}
	for _, want := range []string{"High-Value Leads", "Pipeline Velocity", "Lead Response"} {
		if _, ok := categories[want]; !ok {
			t.Fatalf("missing recommendation %q in %v", want, ins.Recommendations)
		}
	}
	if _, ok := categories["Quote Conversion"]; ok {
		t.Fatal("Quote Conversion should not fire with one outstanding quote")
	}
	if !strings.Contains(categories["High-Value Leads"].Message, "$26,000") {
		t.Fatalf("high-value message = %q", categories["High-Value Leads"].Message)
	}
}

func TestLeadResponseStaysQuietBelowThreshold(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	var leads []repository.Lead
	for i := 0; i < 9; i++ {
		leads = append(leads, lead("New", leaddomain.StageNewLead, nil, 1, -1, now))
	}

	ins := Aggregate(leads, now)
	for _, r := range ins.Recommendations {
		if r.Category == "Lead Response" {
			t.Fatalf("Lead Response fired with 9 new leads: %v", ins.Recommendations)
		}
	}
}

func TestAverageQuoteValueSpansAllLeads(t *testing.T) {
	now := time.Now()
	leads := []repository.Lead{
		lead("A", leaddomain.StageQuoteSent, cents(1_000_000), 1, 0, now),
		lead("B", leaddomain.StageQuoteSent, cents(3_500_000), 1, 0, now),
		lead("C", leaddomain.StageNewLead, nil, 1, 0, now),
	}

	// The unquoted lead counts toward the denominator.
	ins := Aggregate(leads, now)
	if ins.AverageQuoteCents != 1_500_000 {
		t.Fatalf("average quote = %d, want 1500000", ins.AverageQuoteCents)
	}
}
