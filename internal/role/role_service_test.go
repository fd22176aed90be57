package role_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leavedesk/internal/role"
	roleerrors "leavedesk/internal/role/errors"
)

type fakeRoleRepository struct {
	withTxFn       func(tx *sql.Tx) role.Repository
	lockUserFn     func(ctx context.Context, userID string) error
	listByUserFn   func(ctx context.Context, userID string) ([]role.RoleGrant, error)
	existsFn       func(ctx context.Context, userID, r string) (bool, error)
	countForUserFn func(ctx context.Context, userID string) (int64, error)
	createFn       func(ctx context.Context, grant *role.RoleGrant) error
	deleteFn       func(ctx context.Context, userID, r string) (int64, error)
}

func (f *fakeRoleRepository) WithTx(tx *sql.Tx) role.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeRoleRepository) LockUser(ctx context.Context, userID string) error {
	if f.lockUserFn != nil {
		return f.lockUserFn(ctx, userID)
	}
	return nil
}

func (f *fakeRoleRepository) ListByUser(ctx context.Context, userID string) ([]role.RoleGrant, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeRoleRepository) Exists(ctx context.Context, userID, r string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, userID, r)
	}
	return false, nil
}

func (f *fakeRoleRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	if f.countForUserFn != nil {
		return f.countForUserFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeRoleRepository) Create(ctx context.Context, grant *role.RoleGrant) error {
	if f.createFn != nil {
		return f.createFn(ctx, grant)
	}
	return nil
}

func (f *fakeRoleRepository) Delete(ctx context.Context, userID, r string) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, r)
	}
	return 1, nil
}

type roleServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service role.Service
	repo    *fakeRoleRepository
}

func setupRoleServiceTest(t *testing.T) *roleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRoleRepository{}
	svc := role.NewService(db, repo)

	return &roleServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func adminActor(id string) role.Actor {
	return role.Actor{ID: id, Roles: []role.Role{role.Staff, role.Admin}}
}

func TestRoleService_Grant(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	targetID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		created := false
		deps.repo.createFn = func(ctx context.Context, grant *role.RoleGrant) error {
			created = true
			assert.Equal(t, targetID, grant.UserID.String())
			assert.Equal(t, "approver", grant.Role)
			return nil
		}

		err := deps.service.Grant(ctx, adminActor(adminID), targetID, role.Approver)

		assert.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("granting a held role is a no-op", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.repo.existsFn = func(ctx context.Context, userID, r string) (bool, error) {
			return true, nil
		}
		deps.repo.createFn = func(ctx context.Context, grant *role.RoleGrant) error {
			t.Fatal("no insert expected for a held role")
			return nil
		}

		err := deps.service.Grant(ctx, adminActor(adminID), targetID, role.Approver)

		assert.NoError(t, err)
	})

	t.Run("negative non-admin actor", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		actor := role.Actor{ID: adminID, Roles: []role.Role{role.Staff, role.Approver}}
		err := deps.service.Grant(ctx, actor, targetID, role.Approver)

		assert.ErrorIs(t, err, roleerrors.ErrAdminRequired)
	})

	t.Run("negative unknown role", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Grant(ctx, adminActor(adminID), targetID, role.Role("superuser"))

		assert.ErrorIs(t, err, roleerrors.ErrInvalidRole)
	})

	t.Run("negative malformed target id", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Grant(ctx, adminActor(adminID), "not-a-uuid", role.Approver)

		assert.ErrorIs(t, err, roleerrors.ErrInvalidUserID)
	})
}

func TestRoleService_Revoke(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	targetID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.existsFn = func(ctx context.Context, userID, r string) (bool, error) {
			return true, nil
		}
		deps.repo.countForUserFn = func(ctx context.Context, userID string) (int64, error) {
			return 2, nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, userID, r string) (int64, error) {
			deleted = true
			assert.Equal(t, targetID, userID)
			assert.Equal(t, "approver", r)
			return 1, nil
		}

		err := deps.service.Revoke(ctx, adminActor(adminID), targetID, role.Approver)

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("locks the target user before the checks", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		var calls []string
		deps.repo.lockUserFn = func(ctx context.Context, lockedID string) error {
			calls = append(calls, "lock")
			assert.Equal(t, targetID, lockedID)
			return nil
		}
		deps.repo.existsFn = func(ctx context.Context, userID, r string) (bool, error) {
			calls = append(calls, "exists")
			return true, nil
		}
		deps.repo.countForUserFn = func(ctx context.Context, userID string) (int64, error) {
			calls = append(calls, "count")
			return 2, nil
		}

		err := deps.service.Revoke(ctx, adminActor(adminID), targetID, role.Approver)

		assert.NoError(t, err)
		assert.Equal(t, []string{"lock", "exists", "count"}, calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative would strip last role", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.existsFn = func(ctx context.Context, userID, r string) (bool, error) {
			return true, nil
		}
		deps.repo.countForUserFn = func(ctx context.Context, userID string) (int64, error) {
			return 1, nil
		}

		err := deps.service.Revoke(ctx, adminActor(adminID), targetID, role.Staff)

		assert.ErrorIs(t, err, roleerrors.ErrLastRole)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative admin revoking own admin role", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Revoke(ctx, adminActor(adminID), adminID, role.Admin)

		assert.ErrorIs(t, err, roleerrors.ErrSelfDemotion)
	})

	t.Run("admin may revoke own non-admin role", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.existsFn = func(ctx context.Context, userID, r string) (bool, error) {
			return true, nil
		}
		deps.repo.countForUserFn = func(ctx context.Context, userID string) (int64, error) {
			return 2, nil
		}

		err := deps.service.Revoke(ctx, adminActor(adminID), adminID, role.Staff)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin may revoke another admin", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.existsFn = func(ctx context.Context, userID, r string) (bool, error) {
			return true, nil
		}
		deps.repo.countForUserFn = func(ctx context.Context, userID string) (int64, error) {
			return 2, nil
		}

		err := deps.service.Revoke(ctx, adminActor(adminID), targetID, role.Admin)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative grant not held", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.existsFn = func(ctx context.Context, userID, r string) (bool, error) {
			return false, nil
		}

		err := deps.service.Revoke(ctx, adminActor(adminID), targetID, role.Approver)

		assert.ErrorIs(t, err, roleerrors.ErrGrantNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRoleService_ListForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		deps.repo.listByUserFn = func(ctx context.Context, uid string) ([]role.RoleGrant, error) {
			assert.Equal(t, userID, uid)
			return []role.RoleGrant{
				{ID: uuid.New(), UserID: uuid.MustParse(userID), Role: "approver"},
				{ID: uuid.New(), UserID: uuid.MustParse(userID), Role: "staff"},
			}, nil
		}

		roles, err := deps.service.ListForUser(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, []role.Role{role.Approver, role.Staff}, roles)
	})

	t.Run("negative malformed user id", func(t *testing.T) {
		deps := setupRoleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ListForUser(ctx, "nope")

		assert.ErrorIs(t, err, roleerrors.ErrInvalidUserID)
	})
}
