// Package domain provides core business rules for the leads bounded context.
package domain

const (
	StageNewLead     = "new_lead"
	StageContacted   = "contacted"
	StageQuoteSent   = "quote_sent"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

var knownStages = map[string]struct{}{
	StageNewLead:     {},
	StageContacted:   {},
	StageQuoteSent:   {},
	StageNegotiation: {},
	StageClosedWon:   {},
	StageClosedLost:  {},
}

// IsKnownStage reports whether stage is one of the funnel stages.
func IsKnownStage(stage string) bool {
	_, ok := knownStages[stage]
	return ok
}

// terminalStages are stages where the lead has left the pipeline. The
// follow-up sweep and most insight rules exclude such leads.
var terminalStages = map[string]bool{
	StageClosedWon:  true,
	StageClosedLost: true,
}

// IsTerminalStage returns true once a lead is closed either way.
func IsTerminalStage(stage string) bool {
	return terminalStages[stage]
}

// forwardTransitions is the intended funnel order. The CRM UI that owns
// stage mutations is permissive, so stored data may not follow this graph;
// readers must never assume monotonic progression. Writes through this
// engine's own stage endpoint are checked against the table unless the
// caller sets the force flag.
var forwardTransitions = map[string]map[string]bool{
	StageNewLead:     {StageContacted: true, StageClosedLost: true},
	StageContacted:   {StageQuoteSent: true, StageClosedLost: true},
	StageQuoteSent:   {StageNegotiation: true, StageClosedWon: true, StageClosedLost: true},
	StageNegotiation: {StageClosedWon: true, StageClosedLost: true},
	StageClosedWon:   {},
	StageClosedLost:  {},
}

// CanTransition reports whether moving from current to next follows the
// intended funnel order.
func CanTransition(current, next string) bool {
	nexts, ok := forwardTransitions[current]
	if !ok {
		return false
	}
	return nexts[next]
}
