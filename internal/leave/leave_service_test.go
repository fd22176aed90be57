package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leavedesk/internal/leave"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/role"
	"leavedesk/internal/shared/daterange"
)

type fakeLeaveRepository struct {
	withTxFn              func(tx *sql.Tx) leave.Repository
	lockUserFn            func(ctx context.Context, userID string) error
	createFn              func(ctx context.Context, l *leave.LeaveRequest) error
	findAllFn             func(ctx context.Context) ([]leave.LeaveRequest, error)
	findAllByUserFn       func(ctx context.Context, userID string) ([]leave.LeaveRequest, error)
	findPendingFn         func(ctx context.Context) ([]leave.LeaveRequest, error)
	findByIDFn            func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	updateFn              func(ctx context.Context, l *leave.LeaveRequest) error
	hasActiveOverlapFn    func(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error)
	countApprovedOnDateFn func(ctx context.Context, day time.Time) (int64, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) LockUser(ctx context.Context, userID string) error {
	if f.lockUserFn != nil {
		return f.lockUserFn(ctx, userID)
	}
	return nil
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findPendingFn != nil {
		return f.findPendingFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) HasActiveOverlap(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error) {
	if f.hasActiveOverlapFn != nil {
		return f.hasActiveOverlapFn(ctx, userID, startDate, endDate)
	}
	return false, nil
}

func (f *fakeLeaveRepository) CountApprovedOnDate(ctx context.Context, day time.Time) (int64, error) {
	if f.countApprovedOnDateFn != nil {
		return f.countApprovedOnDateFn(ctx, day)
	}
	return 0, nil
}

type fakeBlockGuard struct {
	checkRangeFn func(ctx context.Context, start, end time.Time) error
}

func (f *fakeBlockGuard) CheckRange(ctx context.Context, start, end time.Time) error {
	if f.checkRangeFn != nil {
		return f.checkRangeFn(ctx, start, end)
	}
	return nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	guard   *fakeBlockGuard
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	guard := &fakeBlockGuard{}
	svc := leave.NewService(db, repo, guard)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		guard:   guard,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func staffActor(id string) role.Actor {
	return role.Actor{ID: id, Roles: []role.Role{role.Staff}}
}

func approverActor(id string) role.Actor {
	return role.Actor{ID: id, Roles: []role.Role{role.Staff, role.Approver}}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("staff submission lands pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: "annual",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
			Reason:    "Family event",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(userID), l.UserID)
			assert.Equal(t, "annual", l.LeaveType)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Nil(t, l.ApprovedBy)
			assert.Nil(t, l.ReviewedAt)
			return nil
		}

		resp, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Nil(t, resp.ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("submission holds the user lock before the overlap check", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: "annual",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		var calls []string
		deps.repo.lockUserFn = func(ctx context.Context, lockedID string) error {
			calls = append(calls, "lock")
			assert.Equal(t, userID, lockedID)
			return nil
		}
		deps.repo.hasActiveOverlapFn = func(ctx context.Context, uid string, start, end time.Time) (bool, error) {
			calls = append(calls, "overlap")
			return false, nil
		}

		_, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.NoError(t, err)
		assert.Equal(t, []string{"lock", "overlap"}, calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative user lock failure aborts the submission", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.SubmitLeaveRequest{
			LeaveType: "annual",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		deps.repo.lockUserFn = func(ctx context.Context, lockedID string) error {
			return errors.New("lock timeout")
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			t.Fatal("no insert expected when the lock fails")
			return nil
		}

		_, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approver submission is auto approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: "annual",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-02",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.NotNil(t, l.ApprovedBy)
			assert.Equal(t, userID, l.ApprovedBy.String())
			assert.NotNil(t, l.ReviewedAt)
			return nil
		}

		resp, err := deps.service.Submit(ctx, approverActor(userID), req)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, userID, *resp.ApprovedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin without approver still lands pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: "sick",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-02",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		actor := role.Actor{ID: userID, Roles: []role.Role{role.Admin}}
		resp, err := deps.service.Submit(ctx, actor, req)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("backup note kept on long span", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		note := "Alex covers the oncall rotation"
		req := leave.SubmitLeaveRequest{
			LeaveType:  "annual",
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-06",
			BackupNote: &note,
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.NotNil(t, l.BackupNote)
			assert.Equal(t, note, *l.BackupNote)
			return nil
		}

		resp, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.TotalDays)
		assert.NotNil(t, resp.BackupNote)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("backup note dropped on short span", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		note := "not needed for three days"
		req := leave.SubmitLeaveRequest{
			LeaveType:  "annual",
			StartDate:  "2025-06-02",
			EndDate:    "2025-06-04",
			BackupNote: &note,
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Nil(t, l.BackupNote)
			return nil
		}

		resp, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.NoError(t, err)
		assert.Nil(t, resp.BackupNote)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative blocked date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		blocked := errors.New("2025-03-21 is blocked: Raya shutdown")
		deps.guard.checkRangeFn = func(ctx context.Context, start, end time.Time) error {
			return blocked
		}

		req := leave.SubmitLeaveRequest{
			LeaveType: "annual",
			StartDate: "2025-03-20",
			EndDate:   "2025-03-22",
		}

		_, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.ErrorIs(t, err, blocked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlapping active request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasActiveOverlapFn = func(ctx context.Context, uid string, startDate, endDate time.Time) (bool, error) {
			assert.Equal(t, userID, uid)
			return true, nil
		}

		req := leave.SubmitLeaveRequest{
			LeaveType: "annual",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		_, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.ErrorIs(t, err, leaveerrors.ErrOverlappingRequest)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: "annual",
			StartDate: "2025-06-04",
			EndDate:   "2025-06-02",
		}

		_, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.ErrorIs(t, err, daterange.ErrInvalidRange)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: "sabbatical",
			StartDate: "2025-06-02",
			EndDate:   "2025-06-04",
		}

		_, err := deps.service.Submit(ctx, staffActor(userID), req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	reviewerID := uuid.New().String()
	leaveID := uuid.New().String()

	pendingRequest := func(id string) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:        uuid.MustParse(id),
			UserID:    ownerID,
			LeaveType: "annual",
			StartDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
			Status:    leave.StatusPending,
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingRequest(id), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.NotNil(t, l.ApprovedBy)
			assert.Equal(t, reviewerID, l.ApprovedBy.String())
			assert.NotNil(t, l.ReviewedAt)
			return nil
		}

		resp, err := deps.service.Approve(ctx, approverActor(reviewerID), leaveID)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative double decision", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			l := pendingRequest(id)
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Approve(ctx, approverActor(reviewerID), leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrNotPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative staff cannot review", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Approve(ctx, staffActor(reviewerID), leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrReviewRoleRequired)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	reviewerID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:        uuid.MustParse(id),
				UserID:    uuid.New(),
				LeaveType: "training",
				StartDate: time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC),
				Status:    leave.StatusPending,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusRejected, l.Status)
			return nil
		}

		resp, err := deps.service.Reject(ctx, approverActor(reviewerID), leaveID)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	leaveID := uuid.New().String()

	ownedRequest := func(id, status string) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:        uuid.MustParse(id),
			UserID:    ownerID,
			LeaveType: "annual",
			StartDate: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
			Status:    status,
		}
	}

	t.Run("owner cancels approved request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedRequest(id, leave.StatusApproved), nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusCancelled, l.Status)
			return nil
		}

		resp, err := deps.service.Cancel(ctx, staffActor(ownerID.String()), leaveID)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not the owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedRequest(id, leave.StatusPending), nil
		}

		_, err := deps.service.Cancel(ctx, staffActor(uuid.New().String()), leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return ownedRequest(id, leave.StatusRejected), nil
		}

		_, err := deps.service.Cancel(ctx, staffActor(ownerID.String()), leaveID)

		assert.ErrorIs(t, err, leaveerrors.ErrNotCancellable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("staff sees only their own", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByUserFn = func(ctx context.Context, uid string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, userID, uid)
			return []leave.LeaveRequest{
				{
					ID:        uuid.New(),
					UserID:    uuid.MustParse(userID),
					LeaveType: "sick",
					StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC),
					Status:    leave.StatusPending,
				},
			}, nil
		}
		deps.repo.findAllFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			t.Fatal("staff must not read the full list")
			return nil, nil
		}

		resp, err := deps.service.GetAll(ctx, staffActor(userID))

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, 2, resp[0].TotalDays)
	})

	t.Run("approver sees everyone", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{
				{ID: uuid.New(), UserID: uuid.New(), LeaveType: "annual", StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Status: leave.StatusPending},
				{ID: uuid.New(), UserID: uuid.New(), LeaveType: "sick", StartDate: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), Status: leave.StatusApproved},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, approverActor(userID))

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}

func TestLeaveService_GetPending(t *testing.T) {
	ctx := context.Background()

	t.Run("negative staff forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetPending(ctx, staffActor(uuid.New().String()))

		assert.ErrorIs(t, err, leaveerrors.ErrReviewRoleRequired)
	})
}
