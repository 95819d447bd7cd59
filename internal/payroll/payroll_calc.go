package payroll

import (
	"fmt"
	"math"
	"strings"

	"go-hrcore/internal/salary"
)

// Proration uses a flat 30-day month regardless of the calendar month.
const payrollDaysPerMonth = 30.0

type computation struct {
	Basic           float64
	Allowances      float64
	TotalDeductions float64
	NetPay          float64
	Details         PayslipDetails
}

// The basic component is matched by name, not by a dedicated flag.
func isBasicComponent(name string) bool {
	return strings.Contains(strings.ToLower(name), "basic")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// computePayslip turns a salary structure and an absence count into a
// payslip breakdown. Percentage components resolve against the basic
// amount; loss of pay prorates the fixed gross over a 30-day month.
func computePayslip(structure []salary.EmployeeSalaryComponent, absentDays int64) computation {
	var basic, fixedGross float64
	for _, row := range structure {
		c := row.Component
		if c == nil || c.Type != salary.TypeEarning || !c.IsFixed {
			continue
		}
		fixedGross += row.Amount
		if basic == 0 && isBasicComponent(c.Name) {
			basic = row.Amount
		}
	}

	details := PayslipDetails{
		Earnings:   []LineItem{},
		Deductions: []LineItem{},
		AbsentDays: absentDays,
	}

	var grossEarned, totalDeductions float64
	for _, row := range structure {
		c := row.Component
		if c == nil {
			continue
		}

		amount := row.Amount
		if !c.IsFixed {
			var pct float64
			if c.Percentage != nil {
				pct = *c.Percentage
			}
			amount = basic * pct / 100
		}
		amount = round2(amount)

		switch c.Type {
		case salary.TypeEarning:
			details.Earnings = append(details.Earnings, LineItem{Name: c.Name, Amount: amount})
			grossEarned += amount
		case salary.TypeDeduction:
			details.Deductions = append(details.Deductions, LineItem{Name: c.Name, Amount: amount})
			totalDeductions += amount
		}
	}

	if absentDays > 0 && fixedGross > 0 {
		lop := round2(fixedGross / payrollDaysPerMonth * float64(absentDays))
		details.Deductions = append(details.Deductions, LineItem{
			Name:   fmt.Sprintf("Loss of Pay (%d days)", absentDays),
			Amount: lop,
		})
		totalDeductions += lop
	}

	return computation{
		Basic:           round2(basic),
		Allowances:      round2(grossEarned - basic),
		TotalDeductions: round2(totalDeductions),
		NetPay:          round2(grossEarned - totalDeductions),
		Details:         details,
	}
}
