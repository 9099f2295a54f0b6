// Package transport defines the HTTP request and response shapes for the
// notification module.
package transport

// MilestoneCompletedRequest reports a finished milestone for client
// notification.
type MilestoneCompletedRequest struct {
	MilestoneID string `json:"milestoneId" validate:"required,uuid"`
	ProjectID   string `json:"projectId" validate:"required,uuid"`
}

// MilestoneCompletedResponse confirms the milestone notification.
type MilestoneCompletedResponse struct {
	Message   string `json:"message"`
	Milestone string `json:"milestone"`
}

// ProjectHealthRequest reports a project status change.
type ProjectHealthRequest struct {
	ProjectID      string `json:"projectId" validate:"required,uuid"`
	PreviousStatus string `json:"previousStatus" validate:"required,max=64"`
	NewStatus      string `json:"newStatus" validate:"required,max=64"`
	Reason         string `json:"reason" validate:"max=500"`
}

// ProjectHealthResponse confirms the health notification.
type ProjectHealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
