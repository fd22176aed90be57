package profile

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=profile_repo.go -destination=mock/profile_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]Profile, error)
	FindAllWithRoles(ctx context.Context) ([]ProfileWithRoles, error)
	FindByID(ctx context.Context, id string) (*Profile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *repository) FindAllWithRoles(ctx context.Context) ([]ProfileWithRoles, error) {
	var rows []ProfileWithRoles
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("profiles.id, profiles.full_name, profiles.email, COALESCE(string_agg(user_roles.role, ','), '') AS roles_raw").
		Joins("LEFT JOIN user_roles ON user_roles.user_id = profiles.id").
		Group("profiles.id, profiles.full_name, profiles.email").
		Order("profiles.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}
