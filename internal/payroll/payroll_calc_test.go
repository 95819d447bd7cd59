package payroll

import (
	"testing"

	"go-hrcore/internal/salary"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func fixedEarning(name string, amount float64) salary.EmployeeSalaryComponent {
	return salary.EmployeeSalaryComponent{
		ID:     uuid.New(),
		Amount: amount,
		Component: &salary.SalaryComponent{
			ID:      uuid.New(),
			Name:    name,
			Type:    salary.TypeEarning,
			IsFixed: true,
		},
	}
}

func percentageComponent(name, compType string, pct float64) salary.EmployeeSalaryComponent {
	return salary.EmployeeSalaryComponent{
		ID: uuid.New(),
		Component: &salary.SalaryComponent{
			ID:         uuid.New(),
			Name:       name,
			Type:       compType,
			IsFixed:    false,
			Percentage: &pct,
		},
	}
}

func TestComputePayslip_FullAttendance(t *testing.T) {
	structure := []salary.EmployeeSalaryComponent{
		fixedEarning("Basic Salary", 50000),
		percentageComponent("HRA", salary.TypeEarning, 40),
		percentageComponent("Provident Fund", salary.TypeDeduction, 12),
	}

	comp := computePayslip(structure, 0)

	assert.Equal(t, 50000.0, comp.Basic)
	assert.Equal(t, 20000.0, comp.Allowances)
	assert.Equal(t, 6000.0, comp.TotalDeductions)
	assert.Equal(t, 64000.0, comp.NetPay)
	assert.Len(t, comp.Details.Earnings, 2)
	assert.Len(t, comp.Details.Deductions, 1)
	assert.EqualValues(t, 0, comp.Details.AbsentDays)
}

func TestComputePayslip_LossOfPayProration(t *testing.T) {
	structure := []salary.EmployeeSalaryComponent{
		fixedEarning("Basic Salary", 50000),
		percentageComponent("HRA", salary.TypeEarning, 40),
		percentageComponent("Provident Fund", salary.TypeDeduction, 12),
	}

	comp := computePayslip(structure, 2)

	// Per-day is fixed gross over a flat 30-day month: 50000/30 * 2.
	assert.Equal(t, 60666.67, comp.NetPay)
	assert.Equal(t, 9333.33, comp.TotalDeductions)

	last := comp.Details.Deductions[len(comp.Details.Deductions)-1]
	assert.Equal(t, "Loss of Pay (2 days)", last.Name)
	assert.Equal(t, 3333.33, last.Amount)
	assert.EqualValues(t, 2, comp.Details.AbsentDays)
}

func TestComputePayslip_MultipleFixedEarningsProrateTogether(t *testing.T) {
	structure := []salary.EmployeeSalaryComponent{
		fixedEarning("Basic Salary", 30000),
		fixedEarning("Conveyance", 6000),
	}

	comp := computePayslip(structure, 3)

	// LOP draws on the whole fixed gross, not just basic: 36000/30 * 3.
	assert.Equal(t, 30000.0, comp.Basic)
	assert.Equal(t, 3600.0, comp.TotalDeductions)
	assert.Equal(t, 32400.0, comp.NetPay)
}

func TestComputePayslip_BasicMatchIsCaseInsensitive(t *testing.T) {
	structure := []salary.EmployeeSalaryComponent{
		fixedEarning("BASIC", 40000),
		percentageComponent("HRA", salary.TypeEarning, 50),
	}

	comp := computePayslip(structure, 0)
	assert.Equal(t, 40000.0, comp.Basic)
	assert.Equal(t, 20000.0, comp.Allowances)
}

func TestComputePayslip_PercentageWithoutBasicResolvesToZero(t *testing.T) {
	structure := []salary.EmployeeSalaryComponent{
		fixedEarning("Stipend", 10000),
		percentageComponent("HRA", salary.TypeEarning, 40),
	}

	comp := computePayslip(structure, 0)

	assert.Equal(t, 0.0, comp.Basic)
	assert.Equal(t, 10000.0, comp.NetPay)
}

func TestComputePayslip_EmptyStructure(t *testing.T) {
	comp := computePayslip(nil, 5)

	assert.Zero(t, comp.NetPay)
	assert.Zero(t, comp.TotalDeductions)
	assert.Empty(t, comp.Details.Earnings)
	assert.Empty(t, comp.Details.Deductions)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3333.33, round2(50000.0/30.0*2))
	assert.Equal(t, 0.1, round2(0.10000000001))
	assert.Equal(t, -2.35, round2(-2.345))
}
