package events

import "time"

const LeaveRequestTopic = "leave.request.lifecycle.v1"

const (
	LeaveSubmitted = "leave.request.submitted"
	LeaveApproved  = "leave.request.approved"
	LeaveRejected  = "leave.request.rejected"
	LeaveCancelled = "leave.request.cancelled"
)

// LeaveRequestEvent is published after a successful mutation so
// connected viewers (approvals list, calendar) can refresh. Delivery is
// best-effort; the core never depends on it.
type LeaveRequestEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
