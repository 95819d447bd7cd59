package attendanceerrors

import (
	"net/http"

	"go-hrcore/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timestamp, expected RFC3339 with offset",
		http.StatusBadRequest,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance day not found",
		http.StatusNotFound,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"already clocked in for today",
		http.StatusConflict,
	)
	ErrNoOpenClockIn = apperror.New(
		apperror.CodeInvalidState,
		"no clock-in record found for today",
		http.StatusConflict,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeInvalidState,
		"already clocked out for today",
		http.StatusConflict,
	)
	ErrMissingCheckIn = apperror.New(
		apperror.CodeInvalidState,
		"attendance day has no check-in to close",
		http.StatusConflict,
	)
	ErrDuplicateVerdict = apperror.New(
		apperror.CodeConflict,
		"an attendance day already exists for this employee and date",
		http.StatusConflict,
	)
)
