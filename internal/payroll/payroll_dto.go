package payroll

import "time"

// per-employee outcome of a payroll run
const (
	OutcomeProcessed          = "PROCESSED"
	OutcomeSkippedNoStructure = "SKIPPED_NO_STRUCTURE"
	OutcomeFailed             = "FAILED"
)

type RunPayrollRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
}

type EmployeeOutcome struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	PayslipID    string `json:"payslipId,omitempty"`
}

type RunResponse struct {
	ID        string    `json:"id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type RunPayrollResponse struct {
	Run            RunResponse       `json:"run"`
	ProcessedCount int               `json:"processedCount"`
	SkippedCount   int               `json:"skippedCount"`
	FailedCount    int               `json:"failedCount"`
	Outcomes       []EmployeeOutcome `json:"outcomes"`
}

type PayslipResponse struct {
	ID            string         `json:"id"`
	PayrollRunID  string         `json:"payrollRunId"`
	EmployeeID    string         `json:"employeeId"`
	EmployeeName  string         `json:"employeeName,omitempty"`
	PayslipNumber string         `json:"payslipNumber"`
	Month         int            `json:"month"`
	Year          int            `json:"year"`
	BasicSalary   float64        `json:"basicSalary"`
	Allowances    float64        `json:"allowances"`
	Deductions    float64        `json:"deductions"`
	NetPay        float64        `json:"netPay"`
	Details       PayslipDetails `json:"details"`
	PdfPath       *string        `json:"pdfPath,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}
