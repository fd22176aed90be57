package blockperiod

type CreateBlockPeriodRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type BlockPeriodResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// BlockedDateDetails is the structured payload attached to a
// BLOCKED_DATE rejection: the first blocked day plus the period reason.
type BlockedDateDetails struct {
	BlockedDate string `json:"blocked_date"`
	Reason      string `json:"reason"`
}
