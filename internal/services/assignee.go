package services

import (
	"context"

	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/repositories"
	"repair-tracker/pkg/keys"
	"repair-tracker/pkg/types"
)

type AssigneeServiceInterface interface {
	GetAssignees(ctx context.Context, filter types.Filter) ([]dto.AssigneeDTO, uint64, error)
	FindAssignee(ctx context.Context, key string) (*dto.AssigneeDTO, error)
	CreateAssignee(ctx context.Context, payload dto.CreateAssigneeDTO) (*dto.AssigneeDTO, error)
	UpdateAssignee(ctx context.Context, key string, payload dto.UpdateAssigneeDTO) (*dto.AssigneeDTO, error)
	DeleteAssignee(ctx context.Context, key string) error
}

type AssigneeService struct {
	assigneeRepository repositories.AssigneeRepositoryInterface
	logger             *zap.Logger
}

func NewAssigneeService(assigneeRepository repositories.AssigneeRepositoryInterface, logger *zap.Logger) AssigneeServiceInterface {
	return &AssigneeService{assigneeRepository: assigneeRepository, logger: logger}
}

func (s *AssigneeService) GetAssignees(ctx context.Context, filter types.Filter) ([]dto.AssigneeDTO, uint64, error) {
	return s.assigneeRepository.GetAssignees(ctx, filter)
}

func (s *AssigneeService) FindAssignee(ctx context.Context, key string) (*dto.AssigneeDTO, error) {
	id, err := keys.ParseAs(key, keys.AssigneePrefix)
	if err != nil {
		return nil, err
	}
	return s.assigneeRepository.FindAssignee(ctx, id)
}

func (s *AssigneeService) CreateAssignee(ctx context.Context, payload dto.CreateAssigneeDTO) (*dto.AssigneeDTO, error) {
	assigneeDTO, err := s.assigneeRepository.CreateAssignee(ctx, payload)
	if err != nil {
		s.logger.Error("ошибка при создании исполнителя", zap.Error(err), zap.String("name", payload.Name))
		return nil, err
	}
	s.logger.Info("Исполнитель успешно создан", zap.String("key", assigneeDTO.Key), zap.String("name", assigneeDTO.Name))
	return assigneeDTO, nil
}

func (s *AssigneeService) UpdateAssignee(ctx context.Context, key string, payload dto.UpdateAssigneeDTO) (*dto.AssigneeDTO, error) {
	id, err := keys.ParseAs(key, keys.AssigneePrefix)
	if err != nil {
		return nil, err
	}
	if payload.Name == nil {
		return s.assigneeRepository.FindAssignee(ctx, id)
	}
	// Имя в прошлых событиях журнала — снимок: переименование исполнителя
	// историю не трогает.
	assigneeDTO, err := s.assigneeRepository.UpdateAssignee(ctx, id, *payload.Name)
	if err != nil {
		s.logger.Error("ошибка при обновлении исполнителя", zap.Error(err), zap.String("key", key))
		return nil, err
	}
	s.logger.Info("Исполнитель обновлён", zap.String("key", key), zap.String("name", assigneeDTO.Name))
	return assigneeDTO, nil
}

func (s *AssigneeService) DeleteAssignee(ctx context.Context, key string) error {
	id, err := keys.ParseAs(key, keys.AssigneePrefix)
	if err != nil {
		return err
	}
	if err := s.assigneeRepository.DeleteAssignee(ctx, id); err != nil {
		s.logger.Error("ошибка при удалении исполнителя", zap.Error(err), zap.String("key", key))
		return err
	}
	s.logger.Info("Исполнитель удалён", zap.String("key", key))
	return nil
}
