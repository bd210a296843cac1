package dto

type CreateRepairOrderDTO struct {
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	StatusKey *string `json:"status_key,omitempty" validate:"omitempty,entity_key"`
	Summary   *string `json:"summary,omitempty"`
	Received  *string `json:"received,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type UpdateRepairOrderDTO struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	StatusKey *string `json:"status_key,omitempty" validate:"omitempty,entity_key"`
	Summary   *string `json:"summary,omitempty"`
	Received  *string `json:"received,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Finished  *string `json:"finished,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type RepairOrderDTO struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	StatusKey string `json:"status_key"`
	Summary   string `json:"summary,omitempty"`
	Created   string `json:"created"`
	Received  string `json:"received,omitempty"`
	Finished  string `json:"finished,omitempty"`
	UnitCount uint64 `json:"unit_count"`
}
