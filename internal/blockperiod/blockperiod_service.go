package blockperiod

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	blockperioderrors "leavedesk/internal/blockperiod/errors"
	"leavedesk/internal/shared/daterange"
)

//go:generate mockgen -source=blockperiod_service.go -destination=mock/blockperiod_service_mock.go -package=mock
type Service interface {
	// CheckRange rejects the candidate range if any of its days falls
	// inside an active block period. Runs before any persistence.
	CheckRange(ctx context.Context, start, end time.Time) error

	Create(ctx context.Context, actorID string, req CreateBlockPeriodRequest) (BlockPeriodResponse, error)
	GetAll(ctx context.Context, activeOnly bool) ([]BlockPeriodResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("blockperiod.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("blockperiod.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

// NewServiceWithClock pins "today" for deterministic guard tests.
func NewServiceWithClock(repo Repository, now func() time.Time) Service {
	return &service{repo: repo, now: now, logger: zap.NewNop()}
}

func (s *service) CheckRange(ctx context.Context, start, end time.Time) error {
	days, err := daterange.Days(start, end)
	if err != nil {
		return err
	}

	today := daterange.Normalize(s.now())
	periods, err := s.repo.FindActive(ctx, today)
	if err != nil {
		s.logger.Error("block period lookup failed", zap.Error(err))
		return err
	}

	for _, day := range days {
		for _, p := range periods {
			if daterange.Contains(p.StartDate, p.EndDate, day) {
				blocked := daterange.Format(day)
				s.logger.Warn("candidate range hits block period",
					zap.String("blocked_date", blocked),
					zap.String("reason", p.Reason),
				)
				return blockperioderrors.BlockedDate(blocked, p.Reason, BlockedDateDetails{
					BlockedDate: blocked,
					Reason:      p.Reason,
				})
			}
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, actorID string, req CreateBlockPeriodRequest) (BlockPeriodResponse, error) {
	creatorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return BlockPeriodResponse{}, blockperioderrors.ErrInvalidCreatorID
	}

	start, err := daterange.Parse(req.StartDate)
	if err != nil {
		return BlockPeriodResponse{}, err
	}
	end, err := daterange.Parse(req.EndDate)
	if err != nil {
		return BlockPeriodResponse{}, err
	}
	if start.After(end) {
		return BlockPeriodResponse{}, daterange.ErrInvalidRange
	}

	p := &BlockPeriod{
		ID:        uuid.New(),
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		CreatedBy: creatorUUID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create block period persist failed", zap.Error(err))
		return BlockPeriodResponse{}, err
	}

	s.logger.Info("block period created",
		zap.String("block_period_id", p.ID.String()),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, activeOnly bool) ([]BlockPeriodResponse, error) {
	var (
		periods []BlockPeriod
		err     error
	)
	if activeOnly {
		periods, err = s.repo.FindActive(ctx, daterange.Normalize(s.now()))
	} else {
		periods, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]BlockPeriodResponse, len(periods))
	for i, p := range periods {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return blockperioderrors.ErrBlockPeriodNotFound
	}
	s.logger.Info("block period deleted", zap.String("block_period_id", id))
	return nil
}

func mapToResponse(p BlockPeriod) BlockPeriodResponse {
	return BlockPeriodResponse{
		ID:        p.ID.String(),
		StartDate: daterange.Format(p.StartDate),
		EndDate:   daterange.Format(p.EndDate),
		Reason:    p.Reason,
		CreatedBy: p.CreatedBy.String(),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
