package dto

type CreateRepairUnitDTO struct {
	Serial      string  `json:"serial" validate:"required,min=1,max=100"`
	Type        string  `json:"type" validate:"required,unit_type"`
	OrderKey    string  `json:"order_key" validate:"required,entity_key"`
	StatusKey   *string `json:"status_key,omitempty" validate:"omitempty,entity_key"`
	AssigneeKey *string `json:"assignee_key,omitempty" validate:"omitempty,entity_key"`
}

type UpdateRepairUnitDTO struct {
	Serial      *string `json:"serial,omitempty" validate:"omitempty,min=1,max=100"`
	Type        *string `json:"type,omitempty" validate:"omitempty,unit_type"`
	StatusKey   *string `json:"status_key,omitempty" validate:"omitempty,entity_key"`
	AssigneeKey *string `json:"assignee_key,omitempty" validate:"omitempty,entity_key"`
}

type RepairUnitDTO struct {
	Key             string `json:"key"`
	Serial          string `json:"serial"`
	Type            string `json:"type"`
	CurrentStatus   string `json:"current_status"`
	CurrentAssignee string `json:"current_assignee,omitempty"`
	RepairOrderKey  string `json:"repair_order_key"`
	Created         string `json:"created"`
	UpdatedAt       string `json:"updated_at"`
}
