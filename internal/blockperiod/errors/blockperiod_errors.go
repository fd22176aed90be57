package blockperioderrors

import (
	"fmt"
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrBlockPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"block period not found",
		http.StatusNotFound,
	)
	ErrInvalidCreatorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid creator id",
		http.StatusBadRequest,
	)
)

// BlockedDate builds the rejection for a candidate day falling inside a
// block period, naming the day and the period's reason.
func BlockedDate(date, reason string, details any) *apperror.AppError {
	return apperror.New(
		apperror.CodeBlockedDate,
		fmt.Sprintf("%s is blocked: %s", date, reason),
		http.StatusConflict,
	).WithDetails(details)
}
