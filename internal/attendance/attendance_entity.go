package attendance

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceDay is the single authoritative daily verdict per employee.
// The unique index on (employee_id, date) backs the aggregator's upsert.
type AttendanceDay struct {
	ID         uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	Date       time.Time    `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	CheckIn    *time.Time   `gorm:"column:check_in;type:timestamptz"`
	CheckOut   *time.Time   `gorm:"column:check_out;type:timestamptz"`
	TotalHours float64      `gorm:"column:total_hours;not null;default:0"`
	Status     string       `gorm:"column:status;type:varchar(20);not null;default:ABSENT"`
	IsManual   bool         `gorm:"column:is_manual;not null;default:false"`
	Remarks    *string      `gorm:"column:remarks;type:text"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (AttendanceDay) TableName() string {
	return "attendance_days"
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
