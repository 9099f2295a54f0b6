package domain

const (
	TierHot       = "HOT"
	TierWarm      = "WARM"
	TierQualified = "QUALIFIED"
	TierProspect  = "PROSPECT"
)

// Tier thresholds evaluated on the raw (unclamped) score.
const (
	hotThreshold       = 80
	warmThreshold      = 60
	qualifiedThreshold = 40
)

// TierForScore maps a lead score to its tier. The tier stored on a lead is
// always the image of its score under this function; the two are never
// written independently.
func TierForScore(score int) string {
	switch {
	case score >= hotThreshold:
		return TierHot
	case score >= warmThreshold:
		return TierWarm
	case score >= qualifiedThreshold:
		return TierQualified
	default:
		return TierProspect
	}
}
