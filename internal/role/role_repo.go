package role

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=role_repo.go -destination=mock/role_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// LockUser takes a per-user advisory lock held until the surrounding
	// transaction ends, serializing concurrent mutations of one user's
	// grants.
	LockUser(ctx context.Context, userID string) error

	ListByUser(ctx context.Context, userID string) ([]RoleGrant, error)
	Exists(ctx context.Context, userID, role string) (bool, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
	Create(ctx context.Context, grant *RoleGrant) error
	Delete(ctx context.Context, userID, role string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction: the returned
// session executes on the tx connection, so checks and writes made
// through it commit or roll back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) LockUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID).Error
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]RoleGrant, error) {
	var grants []RoleGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("role ASC").
		Find(&grants).Error
	return grants, err
}

func (r *repository) Exists(ctx context.Context, userID, role string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RoleGrant{}).
		Where("user_id = ?", userID).
		Where("role = ?", role).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountForUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RoleGrant{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Create relies on the unique (user_id, role) index: a concurrent
// duplicate grant is swallowed, which keeps Grant idempotent.
func (r *repository) Create(ctx context.Context, grant *RoleGrant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(grant).Error
}

func (r *repository) Delete(ctx context.Context, userID, role string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("role = ?", role).
		Delete(&RoleGrant{})
	return res.RowsAffected, res.Error
}
