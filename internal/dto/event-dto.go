package dto

// CreateEventDTO — явное добавление события в журнал устройства.
// События типа status журнал получает только через обновление устройства,
// поэтому здесь допустимы только comment и repair.
type CreateEventDTO struct {
	Type        string   `json:"type" validate:"required,oneof=comment repair"`
	AssigneeKey string   `json:"assignee_key" validate:"required,entity_key"`
	Comment     string   `json:"comment" validate:"required,min=1"`
	Components  []string `json:"components,omitempty" validate:"omitempty,dive,min=1"`
}

type EventDTO struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Assignee   string   `json:"assignee"`
	Timestamp  string   `json:"timestamp"`
	Status     string   `json:"status,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	Components []string `json:"components,omitempty"`
}
