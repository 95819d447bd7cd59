package payroll

import (
	"context"

	"go-hrcore/internal/employee"
)

// Renderer turns a persisted payslip into a stored document and returns
// the path it was written to. Rendering is best-effort: the payslip row
// survives even when rendering fails, and can be re-rendered later.
type Renderer interface {
	Render(ctx context.Context, payslip *Payslip, emp *employee.Employee, run *PayrollRun) (string, error)
}
