package salary

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeEarning   = "EARNING"
	TypeDeduction = "DEDUCTION"
)

// SalaryComponent is a global catalog entry, not employee-specific.
// Percentage components derive their amount from the employee's basic
// salary at payroll time.
type SalaryComponent struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"column:name;type:varchar(120);not null;uniqueIndex"`
	Type       string    `gorm:"column:type;type:varchar(20);not null"`
	IsFixed    bool      `gorm:"column:is_fixed;not null;default:true"`
	Percentage *float64  `gorm:"column:percentage"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (SalaryComponent) TableName() string {
	return "salary_components"
}

// EmployeeSalaryComponent is one row of an employee's structure. For
// fixed components Amount is the absolute value; for percentage
// components it is ignored at computation time.
type EmployeeSalaryComponent struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID        `gorm:"column:employee_id;type:uuid;not null;index"`
	ComponentID uuid.UUID        `gorm:"column:component_id;type:uuid;not null"`
	Amount      float64          `gorm:"column:amount;not null;default:0"`
	CreatedAt   time.Time        `gorm:"column:created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at"`
	Component   *SalaryComponent `gorm:"foreignKey:ComponentID;references:ID"`
}

func (EmployeeSalaryComponent) TableName() string {
	return "employee_salary_components"
}
