package payroll

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRun(ctx context.Context, run *PayrollRun) error
	FindRunByID(ctx context.Context, id string) (*PayrollRun, error)
	CreatePayslip(ctx context.Context, payslip *Payslip) error
	UpdatePayslip(ctx context.Context, payslip *Payslip) error
	FindPayslipByID(ctx context.Context, id string) (*Payslip, error)
	FindPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	FindPayslipsByRun(ctx context.Context, runID string) ([]Payslip, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) FindRunByID(ctx context.Context, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) CreatePayslip(ctx context.Context, payslip *Payslip) error {
	return r.db.WithContext(ctx).Create(payslip).Error
}

func (r *repository) UpdatePayslip(ctx context.Context, payslip *Payslip) error {
	return r.db.WithContext(ctx).Save(payslip).Error
}

func (r *repository) FindPayslipByID(ctx context.Context, id string) (*Payslip, error) {
	var payslip Payslip
	err := r.db.WithContext(ctx).
		Preload("Run").
		Preload("Employee").
		First(&payslip, "id = ?", id).Error
	return &payslip, err
}

func (r *repository) FindPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	var payslips []Payslip
	err := r.db.WithContext(ctx).
		Preload("Run").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) FindPayslipsByRun(ctx context.Context, runID string) ([]Payslip, error) {
	var payslips []Payslip
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("payroll_run_id = ?", runID).
		Order("created_at ASC").
		Find(&payslips).Error
	return payslips, err
}
