package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account is the credential view over the profiles table. The directory
// side of the same row lives in the profile package; only auth reads the
// password column.
type Account struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "profiles"
}
