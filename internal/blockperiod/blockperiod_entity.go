package blockperiod

import (
	"time"

	"github.com/google/uuid"
)

// BlockPeriod is an admin-declared closed interval during which no new
// leave may be taken.
type BlockPeriod struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null;index:idx_block_periods_dates"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null;index:idx_block_periods_dates"`
	Reason    string    `gorm:"column:reason;type:text;not null"`
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (BlockPeriod) TableName() string {
	return "block_periods"
}
