package salary

type CreateComponentRequest struct {
	Name       string   `json:"name" binding:"required"`
	Type       string   `json:"type" binding:"required,oneof=EARNING DEDUCTION"`
	IsFixed    *bool    `json:"is_fixed" binding:"required"`
	Percentage *float64 `json:"percentage"`
}

type StructureRowRequest struct {
	ComponentID string  `json:"component_id" binding:"required,uuid"`
	Amount      float64 `json:"amount"`
}

type ReplaceStructureRequest struct {
	Components []StructureRowRequest `json:"components" binding:"required,dive"`
}

type ComponentResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	IsFixed    bool     `json:"is_fixed"`
	Percentage *float64 `json:"percentage,omitempty"`
}

type StructureRowResponse struct {
	ID        string            `json:"id"`
	Component ComponentResponse `json:"component"`
	Amount    float64           `json:"amount"`
}
