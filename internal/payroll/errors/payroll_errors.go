package errors

import (
	"net/http"

	"go-hrcore/internal/shared/apperror"
)

var (
	ErrInvalidPeriod = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "month must be between 1 and 12 and year must be a valid calendar year",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidEmployeeID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "employee id must be a valid UUID",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidPayslipID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "payslip id must be a valid UUID",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrPayslipNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "payslip not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRunNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "payroll run not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrPayslipAccessDenied = &apperror.AppError{
		Code:       apperror.CodeForbidden,
		Message:    "you are not allowed to access this payslip",
		HTTPStatus: http.StatusForbidden,
	}

	ErrPayslipNotRendered = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "payslip document has not been rendered yet",
		HTTPStatus: http.StatusNotFound,
	}
)

// RenderFailed classifies a renderer error while keeping the cause in
// the chain for logs.
func RenderFailed(cause error) *apperror.AppError {
	return apperror.Wrap(
		cause,
		apperror.CodeInternalError,
		"failed to render payslip document",
		http.StatusInternalServerError,
	)
}
