package punch

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *PunchEvent) error
	FindByEmployeeAndDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) ([]PunchEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *PunchEvent) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByEmployeeAndDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) ([]PunchEvent, error) {
	var rows []PunchEvent
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("timestamp BETWEEN ? AND ?", dayStart, dayEnd).
		Order("timestamp ASC").
		Find(&rows).Error
	return rows, err
}
