package attendance

import "time"

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
	StatusLate    = "LATE"
)

const (
	fullDayHours = 8.0
	halfDayHours = 4.0

	lateHour   = 9
	lateMinute = 30
)

// Verdict is the outcome of classifying one day's check-in/out pair.
type Verdict struct {
	TotalHours float64
	Status     string
}

// classifyHours maps worked hours onto the base status ladder. The late
// override is layered on top by Classify; clock-out keeps only this
// ladder.
func classifyHours(totalHours float64) string {
	switch {
	case totalHours >= fullDayHours:
		return StatusPresent
	case totalHours >= halfDayHours:
		return StatusHalfDay
	default:
		return StatusAbsent
	}
}

// lateThresholdFor returns 09:30 on checkIn's calendar day, in checkIn's
// location.
func lateThresholdFor(checkIn time.Time) time.Time {
	return time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), lateHour, lateMinute, 0, 0, checkIn.Location())
}

// Classify derives hours and status from a check-in/out pair.
// Precedence: LATE overrides PRESENT/HALF_DAY when the check-in falls
// after the threshold and at least half a day was worked; it never fires
// below the half-day mark. A missing check-out yields zero hours and
// ABSENT. A missing check-in yields ABSENT.
func Classify(checkIn, checkOut *time.Time) Verdict {
	v := Verdict{Status: StatusAbsent}

	if checkIn != nil && checkOut != nil {
		v.TotalHours = checkOut.Sub(*checkIn).Hours()
		v.Status = classifyHours(v.TotalHours)
	}

	if checkIn != nil && checkIn.After(lateThresholdFor(*checkIn)) && v.TotalHours >= halfDayHours {
		v.Status = StatusLate
	}

	return v
}
