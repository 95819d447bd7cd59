package punch

type IngestRequest struct {
	EmployeeID string   `json:"employee_id" binding:"required,uuid"`
	Timestamp  string   `json:"timestamp" binding:"required"`
	Type       string   `json:"type" binding:"required,oneof=IN OUT"`
	Device     *string  `json:"device"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type PunchResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Timestamp  string  `json:"timestamp"`
	Type       string  `json:"type"`
	Device     *string `json:"device,omitempty"`
}
