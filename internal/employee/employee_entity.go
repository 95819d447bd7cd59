package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Employee struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      *uuid.UUID     `gorm:"column:user_id;type:uuid;uniqueIndex"`
	FirstName   string         `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string         `gorm:"column:last_name;type:varchar(100);not null"`
	Department  string         `gorm:"column:department;type:varchar(100)"`
	Designation string         `gorm:"column:designation;type:varchar(100)"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:ACTIVE;index"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
