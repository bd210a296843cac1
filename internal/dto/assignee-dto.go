package dto

type CreateAssigneeDTO struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateAssigneeDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

type AssigneeDTO struct {
	ID   uint64 `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}
