package salaryerrors

import (
	"net/http"

	"go-hrcore/internal/shared/apperror"
)

var (
	ErrPercentageRequired = apperror.New(
		apperror.CodeInvalidInput,
		"percentage is required for non-fixed components",
		http.StatusBadRequest,
	)
	ErrInvalidComponentType = apperror.New(
		apperror.CodeInvalidInput,
		"component type must be EARNING or DEDUCTION",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary component not found",
		http.StatusNotFound,
	)
)
