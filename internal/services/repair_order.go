package services

import (
	"context"
	"net/http"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/repositories"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/keys"
	"repair-tracker/pkg/types"
)

type RepairOrderServiceInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]dto.RepairOrderDTO, uint64, error)
	FindOrder(ctx context.Context, key string) (*dto.RepairOrderDTO, error)
	CreateOrder(ctx context.Context, payload dto.CreateRepairOrderDTO) (*dto.RepairOrderDTO, error)
	UpdateOrder(ctx context.Context, key string, payload dto.UpdateRepairOrderDTO) (*dto.RepairOrderDTO, error)
	DeleteOrder(ctx context.Context, key string) error
	GetOrderUnits(ctx context.Context, key string) ([]dto.RepairUnitDTO, error)
}

type RepairOrderService struct {
	orderRepository  repositories.RepairOrderRepositoryInterface
	unitRepository   repositories.RepairUnitRepositoryInterface
	statusRepository repositories.StatusRepositoryInterface
	logger           *zap.Logger
}

func NewRepairOrderService(
	orderRepository repositories.RepairOrderRepositoryInterface,
	unitRepository repositories.RepairUnitRepositoryInterface,
	statusRepository repositories.StatusRepositoryInterface,
	logger *zap.Logger,
) RepairOrderServiceInterface {
	return &RepairOrderService{
		orderRepository:  orderRepository,
		unitRepository:   unitRepository,
		statusRepository: statusRepository,
		logger:           logger,
	}
}

func (s *RepairOrderService) GetOrders(ctx context.Context, filter types.Filter) ([]dto.RepairOrderDTO, uint64, error) {
	return s.orderRepository.GetOrders(ctx, filter)
}

func (s *RepairOrderService) FindOrder(ctx context.Context, key string) (*dto.RepairOrderDTO, error) {
	id, err := keys.ParseAs(key, keys.RepairOrderPrefix)
	if err != nil {
		return nil, err
	}
	return s.orderRepository.FindOrder(ctx, id)
}

func (s *RepairOrderService) CreateOrder(ctx context.Context, payload dto.CreateRepairOrderDTO) (*dto.RepairOrderDTO, error) {
	var statusID uint64
	if payload.StatusKey != nil {
		id, err := keys.ParseAs(*payload.StatusKey, keys.StatusPrefix)
		if err != nil {
			return nil, err
		}
		if _, err := s.statusRepository.FindStatus(ctx, id); err != nil {
			return nil, err
		}
		statusID = id
	} else {
		defaultStatus, err := s.statusRepository.FindDefaultStatus(ctx)
		if err != nil {
			return nil, err
		}
		statusID = defaultStatus.ID
	}

	received, err := parseOptionalTime(payload.Received)
	if err != nil {
		return nil, err
	}

	orderDTO, err := s.orderRepository.CreateOrder(ctx, payload.Name, statusID, payload.Summary, received)
	if err != nil {
		s.logger.Error("ошибка при создании заказа", zap.Error(err), zap.String("name", payload.Name))
		return nil, err
	}
	s.logger.Info("Заказ создан", zap.String("key", orderDTO.Key), zap.String("name", orderDTO.Name))
	return orderDTO, nil
}

func (s *RepairOrderService) UpdateOrder(ctx context.Context, key string, payload dto.UpdateRepairOrderDTO) (*dto.RepairOrderDTO, error) {
	id, err := keys.ParseAs(key, keys.RepairOrderPrefix)
	if err != nil {
		return nil, err
	}

	var statusID *uint64
	if payload.StatusKey != nil {
		sid, err := keys.ParseAs(*payload.StatusKey, keys.StatusPrefix)
		if err != nil {
			return nil, err
		}
		if _, err := s.statusRepository.FindStatus(ctx, sid); err != nil {
			return nil, err
		}
		statusID = &sid
	}

	received, err := parseOptionalTime(payload.Received)
	if err != nil {
		return nil, err
	}
	finished, err := parseOptionalTime(payload.Finished)
	if err != nil {
		return nil, err
	}

	orderDTO, err := s.orderRepository.UpdateOrder(ctx, id, payload.Name, statusID, payload.Summary, received, finished)
	if err != nil {
		s.logger.Error("ошибка при обновлении заказа", zap.Error(err), zap.String("key", key))
		return nil, err
	}
	s.logger.Info("Заказ обновлён", zap.String("key", key))
	return orderDTO, nil
}

func (s *RepairOrderService) DeleteOrder(ctx context.Context, key string) error {
	id, err := keys.ParseAs(key, keys.RepairOrderPrefix)
	if err != nil {
		return err
	}
	if err := s.orderRepository.DeleteOrder(ctx, id); err != nil {
		s.logger.Error("ошибка при удалении заказа", zap.Error(err), zap.String("key", key))
		return err
	}
	s.logger.Info("Заказ удалён", zap.String("key", key))
	return nil
}

func (s *RepairOrderService) GetOrderUnits(ctx context.Context, key string) ([]dto.RepairUnitDTO, error) {
	id, err := keys.ParseAs(key, keys.RepairOrderPrefix)
	if err != nil {
		return nil, err
	}
	if _, err := s.orderRepository.FindOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.unitRepository.ListByOrder(ctx, id)
}

func parseOptionalTime(value *string) (null.Time, error) {
	if value == nil {
		return null.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return null.Time{}, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат даты, ожидается RFC3339", err)
	}
	return null.TimeFrom(t.UTC()), nil
}
