package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leavedesk/internal/events"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/role"
	"leavedesk/internal/shared/daterange"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// A backup note is only meaningful when the leave span exceeds this many days.
const backupNoteMinDays = 4

// BlockGuard rejects ranges that hit an admin-declared block period.
type BlockGuard interface {
	CheckRange(ctx context.Context, start, end time.Time) error
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor role.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor role.Actor) ([]LeaveResponse, error)
	GetPending(ctx context.Context, actor role.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error)
	Cancel(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	guard  BlockGuard
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, guard BlockGuard, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, guard: guard, now: time.Now, logger: l}
}

// NewServiceWithOutbox also records lifecycle events in the same
// transaction as the mutation; a worker publishes them to Kafka.
func NewServiceWithOutbox(db *sql.DB, repo Repository, guard BlockGuard, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	s := NewService(db, repo, guard, logger...).(*service)
	s.outbox = outbox
	return s
}

// Submit runs the admission checks in order, short-circuiting on the
// first failure: field validation, block-period guard, own-overlap,
// then auto-approval and the backup-note rule before the atomic insert.
func (s *service) Submit(ctx context.Context, actor role.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("actor_id", actor.ID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}
	if !IsValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := daterange.Parse(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := daterange.Parse(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, daterange.ErrInvalidRange
	}

	if err := s.guard.CheckRange(ctx, startDate, endDate); err != nil {
		s.logger.Warn("submit leave rejected by block period guard",
			zap.String("actor_id", actor.ID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Serialize with other submissions by the same user; without the
	// lock two concurrent submissions could both pass the overlap check.
	if err := qtx.LockUser(ctx, actor.ID); err != nil {
		s.logger.Error("submit leave user lock failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	overlap, err := qtx.HasActiveOverlap(ctx, actor.ID, startDate, endDate)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlaps an active request",
			zap.String("actor_id", actor.ID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrOverlappingRequest
	}

	// Auto-approve only when the submitter holds approver; an
	// admin-only actor still goes through review.
	l := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    userUUID,
		LeaveType: req.LeaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    StatusPending,
	}
	eventType := events.LeaveSubmitted
	if actor.HasAny(role.Approver) {
		now := s.now().UTC()
		l.Status = StatusApproved
		l.ApprovedBy = &userUUID
		l.ReviewedAt = &now
		eventType = events.LeaveApproved
	}

	if daterange.InclusiveDays(startDate, endDate) > backupNoteMinDays {
		l.BackupNote = req.BackupNote
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.recordEvent(ctx, tx, eventType, l); err != nil {
		s.logger.Error("submit leave outbox failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", actor.ID),
		zap.String("status", l.Status),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actor role.Actor) ([]LeaveResponse, error) {
	var (
		requests []LeaveRequest
		err      error
	)
	if actor.HasAny(role.Approver, role.Admin) {
		requests, err = s.repo.FindAll(ctx)
	} else {
		requests, err = s.repo.FindAllByUser(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetPending(ctx context.Context, actor role.Actor) ([]LeaveResponse, error) {
	if !actor.HasAny(role.Approver, role.Admin) {
		return nil, leaveerrors.ErrReviewRoleRequired
	}
	requests, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.UserID.String() != actor.ID && !actor.HasAny(role.Approver, role.Admin) {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error) {
	return s.review(ctx, actor, id, StatusApproved, events.LeaveApproved)
}

func (s *service) Reject(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error) {
	return s.review(ctx, actor, id, StatusRejected, events.LeaveRejected)
}

// review decides a pending request. Deciding an already-decided request
// fails; the state machine has no backward edges.
func (s *service) review(ctx context.Context, actor role.Actor, id, targetStatus, eventType string) (LeaveResponse, error) {
	if !actor.HasAny(role.Approver, role.Admin) {
		return LeaveResponse{}, leaveerrors.ErrReviewRoleRequired
	}
	actorUUID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("review on non-pending request",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	now := s.now().UTC()
	l.Status = targetStatus
	l.ApprovedBy = &actorUUID
	l.ReviewedAt = &now

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("review leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := s.recordEvent(ctx, tx, eventType, l); err != nil {
		s.logger.Error("review leave outbox failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request reviewed",
		zap.String("leave_id", id),
		zap.String("reviewer_id", actor.ID),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

// Cancel moves the owner's pending or approved request to cancelled.
func (s *service) Cancel(ctx context.Context, actor role.Actor, id string) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.UserID.String() != actor.ID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status != StatusPending && l.Status != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrNotCancellable
	}

	l.Status = StatusCancelled

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := s.recordEvent(ctx, tx, events.LeaveCancelled, l); err != nil {
		s.logger.Error("cancel leave outbox failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request cancelled",
		zap.String("leave_id", id),
		zap.String("user_id", actor.ID),
	)
	return mapToResponse(*l), nil
}

func (s *service) recordEvent(ctx context.Context, tx *sql.Tx, eventType string, l *LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LeaveRequestEvent{
		EventType:  eventType,
		LeaveID:    l.ID.String(),
		UserID:     l.UserID.String(),
		Status:     l.Status,
		StartDate:  daterange.Format(l.StartDate),
		EndDate:    daterange.Format(l.EndDate),
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveRequestTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		UserID:     l.UserID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  daterange.Format(l.StartDate),
		EndDate:    daterange.Format(l.EndDate),
		TotalDays:  daterange.InclusiveDays(l.StartDate, l.EndDate),
		Reason:     l.Reason,
		BackupNote: l.BackupNote,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
