package capacity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"leavedesk/internal/config"
	"leavedesk/internal/holiday"
	"leavedesk/internal/shared/daterange"
)

const (
	LabelFull = "full"
	LabelGood = "good"
	LabelLean = "lean"
	LabelLow  = "low"
)

// Counts are a visibility aid, not a hard limiter: a short stale window
// is fine, so cached days live only this long.
const cacheTTL = 60 * time.Second

const highDemandOnLeave = 2

// ApprovedLeaveReader is the read side of the leave store the
// aggregator counts against.
type ApprovedLeaveReader interface {
	CountApprovedOnDate(ctx context.Context, day time.Time) (int64, error)
}

//go:generate mockgen -source=capacity_service.go -destination=mock/capacity_service_mock.go -package=mock
type Service interface {
	// Day computes the team strength for a single date.
	Day(ctx context.Context, day time.Time) (DayStrength, error)
	// Range computes strength for every day of [start, end], ordered.
	Range(ctx context.Context, start, end time.Time) ([]DayStrength, error)
}

type service struct {
	reader     ApprovedLeaveReader
	rdb        *redis.Client
	teamSize   int
	thresholds config.StrengthThresholds
	group      singleflight.Group
	logger     *zap.Logger
}

func NewService(reader ApprovedLeaveReader, rdb *redis.Client, cfg config.Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("capacity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("capacity.service")
	}
	return &service{
		reader:     reader,
		rdb:        rdb,
		teamSize:   cfg.TeamSize,
		thresholds: cfg.Thresholds,
		logger:     l,
	}
}

func (s *service) Day(ctx context.Context, day time.Time) (DayStrength, error) {
	day = daterange.Normalize(day)
	key := "strength:" + daterange.Format(day)

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	// Collapse concurrent computations of the same day
	v, err, _ := s.group.Do(key, func() (any, error) {
		onLeave, err := s.reader.CountApprovedOnDate(ctx, day)
		if err != nil {
			return DayStrength{}, err
		}
		ds := s.build(day, int(onLeave))
		s.toCache(ctx, key, ds)
		return ds, nil
	})
	if err != nil {
		s.logger.Error("compute day strength failed",
			zap.String("date", daterange.Format(day)),
			zap.Error(err),
		)
		return DayStrength{}, err
	}
	return v.(DayStrength), nil
}

func (s *service) Range(ctx context.Context, start, end time.Time) ([]DayStrength, error) {
	days, err := daterange.Days(start, end)
	if err != nil {
		return nil, err
	}

	out := make([]DayStrength, 0, len(days))
	for _, day := range days {
		ds, err := s.Day(ctx, day)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func (s *service) build(day time.Time, onLeave int) DayStrength {
	available := s.teamSize - onLeave
	if available < 0 {
		available = 0
	}

	ds := DayStrength{
		Date:       daterange.Format(day),
		Available:  available,
		Total:      s.teamSize,
		OnLeave:    onLeave,
		Label:      s.label(available, s.teamSize),
		HighDemand: onLeave >= highDemandOnLeave,
	}
	if h, ok := holiday.ForDate(day); ok {
		ds.Holiday = &h.Name
	}
	return ds
}

func (s *service) label(available, total int) string {
	if total <= 0 {
		return LabelLow
	}
	ratio := float64(available) / float64(total)
	switch {
	case ratio >= s.thresholds.Full:
		return LabelFull
	case ratio >= s.thresholds.Good:
		return LabelGood
	case ratio >= s.thresholds.Lean:
		return LabelLean
	default:
		return LabelLow
	}
}

func (s *service) fromCache(ctx context.Context, key string) (DayStrength, bool) {
	if s.rdb == nil {
		return DayStrength{}, false
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return DayStrength{}, false
	}
	var ds DayStrength
	if err := json.Unmarshal([]byte(val), &ds); err != nil {
		return DayStrength{}, false
	}
	return ds, true
}

func (s *service) toCache(ctx context.Context, key string, ds DayStrength) {
	if s.rdb == nil {
		return
	}
	if payload, err := json.Marshal(ds); err == nil {
		s.rdb.Set(ctx, key, payload, cacheTTL)
	}
}
