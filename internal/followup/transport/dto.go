// Package transport defines the HTTP request and response shapes for the
// follow-up module.
package transport

import "time"

// SendRequest asks for an immediate follow-up to one lead. FollowUpType
// is optional; when empty the lead's stage rule picks the template.
type SendRequest struct {
	LeadID       string `json:"leadId" validate:"required,uuid"`
	FollowUpType string `json:"followUpType" validate:"omitempty,max=64"`
}

// SendResponse confirms a manual follow-up send.
type SendResponse struct {
	Message  string `json:"message"`
	LeadName string `json:"leadName"`
}

// StatusResponse reports sweep bookkeeping. LastSweepAt is null when the
// sweep has never run.
type StatusResponse struct {
	LastSweepAt *time.Time `json:"lastSweepAt"`
}
