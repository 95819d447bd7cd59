package events

import "time"

const PayslipRenderRequestedTopic = "hr.payroll.payslip.render.requested.v1"

type PayslipRenderRequestedEvent struct {
	EventType   string    `json:"event_type"`
	PayslipID   string    `json:"payslip_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
