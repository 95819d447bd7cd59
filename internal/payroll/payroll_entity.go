package payroll

import (
	"time"

	"github.com/google/uuid"
)

const StatusProcessed = "PROCESSED"

// PayrollRun is one execution of payroll for a (month, year) period.
// Re-running the same period is allowed and produces a second run with
// its own payslips; there is deliberately no uniqueness constraint.
type PayrollRun struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Month     int       `gorm:"column:month;not null;index:idx_run_period"`
	Year      int       `gorm:"column:year;not null;index:idx_run_period"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:PROCESSED"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

type Payslip struct {
	ID            uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRunID  uuid.UUID    `gorm:"column:payroll_run_id;type:uuid;not null;index"`
	EmployeeID    uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;index"`
	PayslipNumber string       `gorm:"column:payslip_number;type:varchar(40);not null"`
	BasicSalary   float64      `gorm:"column:basic_salary;not null;default:0"`
	Allowances    float64      `gorm:"column:allowances;not null;default:0"`
	Deductions    float64      `gorm:"column:deductions;not null;default:0"`
	NetPay        float64      `gorm:"column:net_pay;not null;default:0"`
	Details       string       `gorm:"column:details;type:jsonb;not null;default:'{}'"`
	PdfPath       *string      `gorm:"column:pdf_path;type:text"`
	CreatedAt     time.Time    `gorm:"column:created_at"`
	UpdatedAt     time.Time    `gorm:"column:updated_at"`
	Run           *PayrollRun  `gorm:"foreignKey:PayrollRunID;references:ID"`
	Employee      *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Payslip) TableName() string {
	return "payslips"
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// LineItem is one earnings or deductions row in a payslip breakdown.
type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PayslipDetails is the itemized payload stored as JSON on the payslip.
type PayslipDetails struct {
	Earnings   []LineItem `json:"earnings"`
	Deductions []LineItem `json:"deductions"`
	AbsentDays int64      `json:"absentDays"`
}
