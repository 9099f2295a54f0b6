package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StageNewLead, StageContacted, true},
		{StageNewLead, StageClosedLost, true},
		{StageNewLead, StageQuoteSent, false},
		{StageContacted, StageQuoteSent, true},
		{StageContacted, StageNewLead, false},
		{StageQuoteSent, StageNegotiation, true},
		{StageQuoteSent, StageClosedWon, true},
		{StageNegotiation, StageClosedWon, true},
		{StageNegotiation, StageQuoteSent, false},
		{StageClosedWon, StageNewLead, false},
		{StageClosedLost, StageContacted, false},
		{"bogus", StageContacted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStageClassification(t *testing.T) {
	for _, stage := range []string{StageNewLead, StageContacted, StageQuoteSent, StageNegotiation, StageClosedWon, StageClosedLost} {
		if !IsKnownStage(stage) {
			t.Fatalf("IsKnownStage(%q) = false", stage)
		}
	}
	if IsKnownStage("archived") {
		t.Fatal(`IsKnownStage("archived") = true`)
	}

	if !IsTerminalStage(StageClosedWon) || !IsTerminalStage(StageClosedLost) {
		t.Fatal("closed stages must be terminal")
	}
	if IsTerminalStage(StageNegotiation) {
		t.Fatal("negotiation must not be terminal")
	}
}
