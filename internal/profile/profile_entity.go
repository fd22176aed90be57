package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the directory entry for a team member. The id matches the
// authentication identity; one profile per identity.
type Profile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileWithRoles is the flattened admin view row: the profile plus a
// comma-joined aggregate of its role grants.
type ProfileWithRoles struct {
	ID       string `gorm:"column:id"`
	FullName string `gorm:"column:full_name"`
	Email    string `gorm:"column:email"`
	RolesRaw string `gorm:"column:roles_raw"`
}
