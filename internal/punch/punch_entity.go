package punch

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeIn  = "IN"
	TypeOut = "OUT"
)

// PunchEvent is one raw time-clock scan. The ledger is append-only:
// rows are never updated or deleted, ordering is resolved by the daily
// aggregator.
type PunchEvent struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:idx_punch_employee_ts"`
	Timestamp  time.Time `gorm:"column:timestamp;type:timestamptz;not null;index:idx_punch_employee_ts"`
	Type       string    `gorm:"column:type;type:varchar(3);not null"`
	Device     *string   `gorm:"column:device;type:varchar(100)"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (PunchEvent) TableName() string {
	return "punch_events"
}
