package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_leave_requests_user_dates"`

	LeaveType string    `gorm:"column:leave_type;type:varchar(20);not null"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null;index:idx_leave_requests_user_dates"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null;index:idx_leave_requests_user_dates"`
	Reason    string    `gorm:"column:reason;type:text"`

	// BackupNote is only meaningful for spans longer than 4 days and is
	// forced to NULL otherwise.
	BackupNote *string `gorm:"column:backup_note;type:text"`

	Status     string     `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	ApprovedBy *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
