package blockperiod

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=blockperiod_repo.go -destination=mock/blockperiod_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *BlockPeriod) error
	FindAll(ctx context.Context) ([]BlockPeriod, error)
	FindActive(ctx context.Context, from time.Time) ([]BlockPeriod, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *BlockPeriod) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context) ([]BlockPeriod, error) {
	var periods []BlockPeriod
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

// FindActive returns periods that have not yet ended as of from.
func (r *repository) FindActive(ctx context.Context, from time.Time) ([]BlockPeriod, error) {
	var periods []BlockPeriod
	err := r.db.WithContext(ctx).
		Where("end_date >= ?", from.Format("2006-01-02")).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&BlockPeriod{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
