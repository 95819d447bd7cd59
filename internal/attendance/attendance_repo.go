package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *AttendanceDay) error
	Update(ctx context.Context, a *AttendanceDay) error
	FindByID(ctx context.Context, id string) (*AttendanceDay, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)
	FindAll(ctx context.Context, filter QueryFilter) ([]AttendanceDay, error)
	CountByStatusInRange(ctx context.Context, employeeID, status string, from, to time.Time) (int64, error)
	FindEmployeeIDsWithVerdict(ctx context.Context, date time.Time) ([]string, error)
}

type QueryFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
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

func (r *repository) Create(ctx context.Context, a *AttendanceDay) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *AttendanceDay) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceDay, error) {
	var a AttendanceDay
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error
	return &a, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error) {
	var a AttendanceDay
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context, filter QueryFilter) ([]AttendanceDay, error) {
	q := r.db.WithContext(ctx).Preload("Employee")
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != nil && filter.To != nil {
		q = q.Where("date BETWEEN ? AND ?", filter.From.Format("2006-01-02"), filter.To.Format("2006-01-02"))
	}

	var rows []AttendanceDay
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) CountByStatusInRange(ctx context.Context, employeeID, status string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceDay{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", status).
		Where("date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Count(&count).Error
	return count, err
}

func (r *repository) FindEmployeeIDsWithVerdict(ctx context.Context, date time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&AttendanceDay{}).
		Where("date = ?", date.Format("2006-01-02")).
		Pluck("employee_id", &ids).Error
	return ids, err
}
