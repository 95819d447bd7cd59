package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) *time.Time {
	t := time.Date(2026, 3, 16, hour, min, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		checkIn    *time.Time
		checkOut   *time.Time
		wantStatus string
		wantHours  float64
	}{
		{"full day on time", at(9, 0), at(18, 0), StatusPresent, 9},
		{"exactly eight hours", at(9, 0), at(17, 0), StatusPresent, 8},
		{"half day", at(9, 0), at(14, 0), StatusHalfDay, 5},
		{"exactly four hours", at(9, 0), at(13, 0), StatusHalfDay, 4},
		{"short day", at(9, 0), at(12, 0), StatusAbsent, 3},
		{"late arrival full hours", at(9, 50), at(18, 0), StatusLate, 8.166666666666666},
		{"late arrival half day", at(10, 0), at(15, 30), StatusLate, 5.5},
		{"late but under half day", at(10, 0), at(13, 0), StatusAbsent, 3},
		{"on the late threshold", at(9, 30), at(18, 0), StatusPresent, 8.5},
		{"missing check-out", at(9, 0), nil, StatusAbsent, 0},
		{"missing check-in", nil, at(18, 0), StatusAbsent, 0},
		{"no punches", nil, nil, StatusAbsent, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Classify(tc.checkIn, tc.checkOut)
			assert.Equal(t, tc.wantStatus, v.Status)
			assert.InDelta(t, tc.wantHours, v.TotalHours, 1e-9)
		})
	}
}

func TestClassifyHoursLadder(t *testing.T) {
	assert.Equal(t, StatusPresent, classifyHours(8))
	assert.Equal(t, StatusHalfDay, classifyHours(7.99))
	assert.Equal(t, StatusHalfDay, classifyHours(4))
	assert.Equal(t, StatusAbsent, classifyHours(3.99))
	assert.Equal(t, StatusAbsent, classifyHours(0))
}
