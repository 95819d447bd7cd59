package salary

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateComponent(ctx context.Context, c *SalaryComponent) error
	FindActiveComponents(ctx context.Context) ([]SalaryComponent, error)
	FindComponentByID(ctx context.Context, id string) (*SalaryComponent, error)
	ClearStructure(ctx context.Context, employeeID string) error
	CreateStructureRow(ctx context.Context, row *EmployeeSalaryComponent) error
	FindStructureByEmployee(ctx context.Context, employeeID string) ([]EmployeeSalaryComponent, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) CreateComponent(ctx context.Context, c *SalaryComponent) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindActiveComponents(ctx context.Context) ([]SalaryComponent, error) {
	var rows []SalaryComponent
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindComponentByID(ctx context.Context, id string) (*SalaryComponent, error) {
	var c SalaryComponent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	return &c, err
}

func (r *repository) ClearStructure(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Delete(&EmployeeSalaryComponent{}).Error
}

func (r *repository) CreateStructureRow(ctx context.Context, row *EmployeeSalaryComponent) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) FindStructureByEmployee(ctx context.Context, employeeID string) ([]EmployeeSalaryComponent, error) {
	var rows []EmployeeSalaryComponent
	err := r.db.WithContext(ctx).
		Preload("Component").
		Where("employee_id = ?", employeeID).
		Find(&rows).Error
	return rows, err
}
