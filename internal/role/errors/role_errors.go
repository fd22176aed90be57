package roleerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"invalid role, must be one of: staff, approver, admin",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrAdminRequired = apperror.New(
		apperror.CodeForbidden,
		"admin role is required to manage roles",
		http.StatusForbidden,
	)
	ErrLastRole = apperror.New(
		apperror.CodeRoleCount,
		"cannot remove the last role, user must have at least one role",
		http.StatusBadRequest,
	)
	ErrSelfDemotion = apperror.New(
		apperror.CodeSelfDemotion,
		"cannot remove your own admin role",
		http.StatusBadRequest,
	)
	ErrGrantNotFound = apperror.New(
		apperror.CodeNotFound,
		"role grant not found for this user",
		http.StatusNotFound,
	)
)
