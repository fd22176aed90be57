package role

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	roleerrors "leavedesk/internal/role/errors"
)

//go:generate mockgen -source=role_service.go -destination=mock/role_service_mock.go -package=mock
type Service interface {
	ListForUser(ctx context.Context, userID string) ([]Role, error)
	Grant(ctx context.Context, actor Actor, targetUserID string, r Role) error
	Revoke(ctx context.Context, actor Actor, targetUserID string, r Role) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("role.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("role.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]Role, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, roleerrors.ErrInvalidUserID
	}

	grants, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles := make([]Role, 0, len(grants))
	for _, g := range grants {
		if r, ok := Parse(g.Role); ok {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

// Grant adds a role to the target user. Granting a role the target
// already holds is a no-op, not an error.
func (s *service) Grant(ctx context.Context, actor Actor, targetUserID string, r Role) error {
	if !actor.HasAny(Admin) {
		return roleerrors.ErrAdminRequired
	}
	targetUUID, err := uuid.Parse(targetUserID)
	if err != nil {
		return roleerrors.ErrInvalidUserID
	}
	if _, ok := Parse(string(r)); !ok {
		return roleerrors.ErrInvalidRole
	}

	exists, err := s.repo.Exists(ctx, targetUserID, string(r))
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug("grant role no-op, already held",
			zap.String("target_user_id", targetUserID),
			zap.String("role", string(r)),
		)
		return nil
	}

	if err := s.repo.Create(ctx, &RoleGrant{
		ID:     uuid.New(),
		UserID: targetUUID,
		Role:   string(r),
	}); err != nil {
		s.logger.Error("grant role persist failed",
			zap.String("target_user_id", targetUserID),
			zap.String("role", string(r)),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("role granted",
		zap.String("actor_id", actor.ID),
		zap.String("target_user_id", targetUserID),
		zap.String("role", string(r)),
	)
	return nil
}

// Revoke removes a role from the target user. The check-then-delete
// sequence runs inside a transaction holding a per-user advisory lock,
// so a concurrent revoke cannot strip the target's last role.
func (s *service) Revoke(ctx context.Context, actor Actor, targetUserID string, r Role) error {
	if !actor.HasAny(Admin) {
		return roleerrors.ErrAdminRequired
	}
	if _, err := uuid.Parse(targetUserID); err != nil {
		return roleerrors.ErrInvalidUserID
	}
	if _, ok := Parse(string(r)); !ok {
		return roleerrors.ErrInvalidRole
	}
	if actor.ID == targetUserID && r == Admin {
		return roleerrors.ErrSelfDemotion
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("revoke role begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.LockUser(ctx, targetUserID); err != nil {
		s.logger.Error("revoke role user lock failed", zap.Error(err))
		return err
	}

	exists, err := qtx.Exists(ctx, targetUserID, string(r))
	if err != nil {
		return err
	}
	if !exists {
		return roleerrors.ErrGrantNotFound
	}

	count, err := qtx.CountForUser(ctx, targetUserID)
	if err != nil {
		return err
	}
	if count <= 1 {
		s.logger.Warn("revoke role would strip last role",
			zap.String("target_user_id", targetUserID),
			zap.String("role", string(r)),
		)
		return roleerrors.ErrLastRole
	}

	if _, err := qtx.Delete(ctx, targetUserID, string(r)); err != nil {
		s.logger.Error("revoke role delete failed",
			zap.String("target_user_id", targetUserID),
			zap.String("role", string(r)),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("revoke role commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("role revoked",
		zap.String("actor_id", actor.ID),
		zap.String("target_user_id", targetUserID),
		zap.String("role", string(r)),
	)
	return nil
}
