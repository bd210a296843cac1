package dto

// CreateStatusDTO: что клиент присылает для создания.
type CreateStatusDTO struct {
	Name string `json:"name" validate:"required,min=1,max=20"`
}

// UpdateStatusDTO: что клиент может прислать для обновления.
type UpdateStatusDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=20"`
}

// StatusDTO: что сервер отправляет клиенту в ответ.
type StatusDTO struct {
	ID   uint64 `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}
