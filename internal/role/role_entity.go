package role

import (
	"time"

	"github.com/google/uuid"
)

type RoleGrant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_roles_user_role"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RoleGrant) TableName() string {
	return "user_roles"
}
