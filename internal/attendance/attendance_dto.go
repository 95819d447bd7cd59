package attendance

type ProcessRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Date       string `json:"date"`
}

type RegularizeRequest struct {
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Remarks  string `json:"remarks" binding:"required,min=5"`
}

type SweepRequest struct {
	Date string `json:"date"`
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	CheckIn      *string `json:"check_in,omitempty"`
	CheckOut     *string `json:"check_out,omitempty"`
	TotalHours   float64 `json:"total_hours"`
	Status       string  `json:"status"`
	IsManual     bool    `json:"is_manual"`
	Remarks      *string `json:"remarks,omitempty"`
}

// ProcessResult distinguishes "nothing to aggregate" from a real verdict
// without treating the empty day as an error.
type ProcessResult struct {
	Skipped    bool                `json:"skipped"`
	Message    string              `json:"message,omitempty"`
	Attendance *AttendanceResponse `json:"attendance,omitempty"`
}

type SweepResult struct {
	Date        string `json:"date"`
	MarkedCount int    `json:"marked_count"`
}
