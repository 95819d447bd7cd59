package puncherrors

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
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timestamp, expected RFC3339 with offset",
		http.StatusBadRequest,
	)
	ErrInvalidPunchType = apperror.New(
		apperror.CodeInvalidInput,
		"punch type must be IN or OUT",
		http.StatusBadRequest,
	)
	ErrGeofenceViolation = apperror.New(
		apperror.CodeForbidden,
		"punch rejected: outside the allowed office radius",
		http.StatusForbidden,
	)
)
