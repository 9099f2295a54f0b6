// Package scoring implements the intake questionnaire rubric that converts
// categorical answers into a lead score and tier. Scoring is a pure
// function: no clock, no randomness, no I/O.
package scoring

import (
	"strings"

	"roofline_backend/internal/leads/domain"
)

// Answers holds the categorical intake questionnaire responses. Values are
// free-form strings from the intake form; anything outside the point table
// (including an empty string) contributes 0 points.
type Answers struct {
	RoofAge        string `json:"roofAge"`
	RoofCondition  string `json:"roofCondition"`
	VisibleDamage  string `json:"visibleDamage"`
	RecentStorm    string `json:"recentStorm"`
	ActiveLeaks    string `json:"activeLeaks"`
	Timeline       string `json:"timeline"`
	HasOtherQuotes string `json:"hasOtherQuotes"`
	HasBudget      string `json:"hasBudget"`
}

// Result is the outcome of scoring an intake questionnaire.
type Result struct {
	// Score is the raw rubric sum. Category maxima add up to 125, so the
	// raw value can exceed 100; tier thresholds are evaluated on this
	// value.
	Score int `json:"score"`
	// DisplayScore is Score capped at 100 for consumers that present the
	// score on a 0-100 scale.
	DisplayScore int    `json:"displayScore"`
	Tier         string `json:"tier"`
}

// Point tables per category. Keys are the normalized answer values the
// intake form produces.
var (
	roofAgePoints = map[string]int{
		"20+":   30,
		"15-20": 25,
		"10-15": 15,
		"5-10":  8,
		"0-5":   3,
	}

	conditionPoints = map[string]int{
		"poor":      25,
		"fair":      15,
		"good":      5,
		"excellent": 0,
	}

	visibleDamagePoints = map[string]int{
		"yes":    15,
		"unsure": 8,
		"no":     0,
	}

	recentStormPoints = map[string]int{
		"yes":    10,
		"unsure": 5,
		"no":     0,
	}

	activeLeaksPoints = map[string]int{
		"yes": 10,
		"no":  0,
	}

	timelinePoints = map[string]int{
		"immediate":   15,
		"1-3 months":  12,
		"3-6 months":  8,
		"6-12 months": 4,
	}

	// Answering "no" still signals engagement, so it earns partial credit;
	// only a missing answer contributes 0.
	hasOtherQuotesPoints = map[string]int{
		"yes": 10,
		"no":  5,
	}

	hasBudgetPoints = map[string]int{
		"yes": 10,
		"no":  5,
	}
)

// Score evaluates the rubric over the given answers. Identical answers
// always yield an identical result; unknown or missing answers never
// raise an error.
func Score(answers Answers) Result {
	total := 0
	total += roofAgePoints[normalize(answers.RoofAge)]
	total += conditionPoints[normalize(answers.RoofCondition)]
	total += visibleDamagePoints[normalize(answers.VisibleDamage)]
	total += recentStormPoints[normalize(answers.RecentStorm)]
	total += activeLeaksPoints[normalize(answers.ActiveLeaks)]
	total += timelinePoints[normalize(answers.Timeline)]
	total += hasOtherQuotesPoints[normalize(answers.HasOtherQuotes)]
	total += hasBudgetPoints[normalize(answers.HasBudget)]

	display := total
	if display > 100 {
		display = 100
	}

	return Result{
		Score:        total,
		DisplayScore: display,
		Tier:         domain.TierForScore(total),
	}
}

func normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
