package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	"repair-tracker/internal/journal"
	"repair-tracker/internal/repositories"
	apperrors "repair-tracker/pkg/errors"
	"repair-tracker/pkg/keys"
)

type RepairUnitServiceInterface interface {
	FindUnit(ctx context.Context, key string) (*dto.RepairUnitDTO, error)
	CreateUnit(ctx context.Context, payload dto.CreateRepairUnitDTO) (*dto.RepairUnitDTO, error)
	UpdateUnit(ctx context.Context, key string, payload dto.UpdateRepairUnitDTO) (*dto.RepairUnitDTO, error)
	DeleteUnit(ctx context.Context, key string) error
	GetEvents(ctx context.Context, key string) ([]dto.EventDTO, error)
	AddEvent(ctx context.Context, key string, payload dto.CreateEventDTO) (*dto.EventDTO, error)
	RemoveEvent(ctx context.Context, key string, eventID string) error
}

type RepairUnitService struct {
	pool               *pgxpool.Pool
	unitRepository     repositories.RepairUnitRepositoryInterface
	orderRepository    repositories.RepairOrderRepositoryInterface
	statusRepository   repositories.StatusRepositoryInterface
	assigneeRepository repositories.AssigneeRepositoryInterface
	cache              repositories.CacheRepositoryInterface
	logger             *zap.Logger
}

func NewRepairUnitService(
	pool *pgxpool.Pool,
	unitRepository repositories.RepairUnitRepositoryInterface,
	orderRepository repositories.RepairOrderRepositoryInterface,
	statusRepository repositories.StatusRepositoryInterface,
	assigneeRepository repositories.AssigneeRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) RepairUnitServiceInterface {
	return &RepairUnitService{
		pool:               pool,
		unitRepository:     unitRepository,
		orderRepository:    orderRepository,
		statusRepository:   statusRepository,
		assigneeRepository: assigneeRepository,
		cache:              cache,
		logger:             logger,
	}
}

func (s *RepairUnitService) FindUnit(ctx context.Context, key string) (*dto.RepairUnitDTO, error) {
	id, err := keys.ParseAs(key, keys.RepairUnitPrefix)
	if err != nil {
		return nil, err
	}
	return s.unitRepository.FindUnit(ctx, id)
}

func (s *RepairUnitService) CreateUnit(ctx context.Context, payload dto.CreateRepairUnitDTO) (*dto.RepairUnitDTO, error) {
	unitType := entities.UnitType(payload.Type)
	if !unitType.Valid() {
		return nil, apperrors.ErrInvalidUnitType
	}

	orderID, err := keys.ParseAs(payload.OrderKey, keys.RepairOrderPrefix)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepository.FindOrderEntity(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Статус по умолчанию наследуется от заказа.
	statusID := order.StatusID
	if payload.StatusKey != nil {
		sid, err := keys.ParseAs(*payload.StatusKey, keys.StatusPrefix)
		if err != nil {
			return nil, err
		}
		statusID = sid
	}
	status, err := s.statusRepository.FindStatus(ctx, statusID)
	if err != nil {
		return nil, err
	}

	var assigneeID *uint64
	assigneeName := ""
	if payload.AssigneeKey != nil {
		aid, err := keys.ParseAs(*payload.AssigneeKey, keys.AssigneePrefix)
		if err != nil {
			return nil, err
		}
		assignee, err := s.assigneeRepository.FindAssignee(ctx, aid)
		if err != nil {
			return nil, err
		}
		assigneeID = &aid
		assigneeName = assignee.Name
	}

	// Начальный статус сразу попадает в журнал: таймлайн устройства
	// начинается со дня создания.
	j := journal.Journal{}
	initialEvent := journal.NewEvent(journal.EventStatus, assigneeName)
	initialEvent.Status = status.Name
	j.Append(initialEvent)
	eventsJSON, err := j.Encode()
	if err != nil {
		return nil, err
	}

	unit := entities.RepairUnit{
		Serial:            payload.Serial,
		Type:              unitType,
		CurrentStatusID:   statusID,
		CurrentAssigneeID: assigneeID,
		RepairOrderID:     orderID,
		EventsJSON:        eventsJSON,
	}
	id, err := s.unitRepository.CreateUnit(ctx, unit)
	if err != nil {
		s.logger.Error("ошибка при создании устройства", zap.Error(err), zap.String("serial", payload.Serial))
		return nil, err
	}

	s.invalidateTimeline(ctx, orderID)
	s.logger.Info("Устройство создано",
		zap.String("key", keys.Format(keys.RepairUnitPrefix, id)),
		zap.String("serial", payload.Serial),
		zap.String("order", payload.OrderKey),
	)
	return s.unitRepository.FindUnit(ctx, id)
}

func (s *RepairUnitService) UpdateUnit(ctx context.Context, key string, payload dto.UpdateRepairUnitDTO) (*dto.RepairUnitDTO, error) {
	id, err := keys.ParseAs(key, keys.RepairUnitPrefix)
	if err != nil {
		return nil, err
	}

	var orderID uint64
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		unit, err := s.unitRepository.FindUnitForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		orderID = unit.RepairOrderID
		j := journal.Decode(unit.EventsJSON)

		if payload.Serial != nil {
			unit.Serial = *payload.Serial
		}
		if payload.Type != nil {
			unitType := entities.UnitType(*payload.Type)
			if !unitType.Valid() {
				return apperrors.ErrInvalidUnitType
			}
			unit.Type = unitType
		}
		if payload.AssigneeKey != nil {
			aid, err := keys.ParseAs(*payload.AssigneeKey, keys.AssigneePrefix)
			if err != nil {
				return err
			}
			if _, err := s.assigneeRepository.FindAssignee(ctx, aid); err != nil {
				return err
			}
			unit.CurrentAssigneeID = &aid
		}

		if payload.StatusKey != nil {
			sid, err := keys.ParseAs(*payload.StatusKey, keys.StatusPrefix)
			if err != nil {
				return err
			}
			status, err := s.statusRepository.FindStatus(ctx, sid)
			if err != nil {
				return err
			}
			// Событие смены статуса пишется только при реальной смене
			// и только когда у устройства есть исполнитель. Это
			// единственный источник событий типа status.
			if sid != unit.CurrentStatusID {
				unit.CurrentStatusID = sid
				if unit.CurrentAssigneeID != nil {
					assignee, err := s.assigneeRepository.FindAssignee(ctx, *unit.CurrentAssigneeID)
					if err != nil {
						return err
					}
					statusEvent := journal.NewEvent(journal.EventStatus, assignee.Name)
					statusEvent.Status = status.Name
					j.Append(statusEvent)
				}
			}
		}

		eventsJSON, err := j.Encode()
		if err != nil {
			return err
		}
		unit.EventsJSON = eventsJSON
		return s.unitRepository.UpdateUnitTx(ctx, tx, *unit)
	})
	if err != nil {
		s.logger.Error("ошибка при обновлении устройства", zap.Error(err), zap.String("key", key))
		return nil, err
	}

	s.invalidateTimeline(ctx, orderID)
	s.logger.Info("Устройство обновлено", zap.String("key", key))
	return s.unitRepository.FindUnit(ctx, id)
}

func (s *RepairUnitService) DeleteUnit(ctx context.Context, key string) error {
	id, err := keys.ParseAs(key, keys.RepairUnitPrefix)
	if err != nil {
		return err
	}
	unit, err := s.unitRepository.FindUnitEntity(ctx, id)
	if err != nil {
		return err
	}
	if err := s.unitRepository.DeleteUnit(ctx, id); err != nil {
		s.logger.Error("ошибка при удалении устройства", zap.Error(err), zap.String("key", key))
		return err
	}
	s.invalidateTimeline(ctx, unit.RepairOrderID)
	s.logger.Info("Устройство удалено", zap.String("key", key))
	return nil
}

func (s *RepairUnitService) GetEvents(ctx context.Context, key string) ([]dto.EventDTO, error) {
	id, err := keys.ParseAs(key, keys.RepairUnitPrefix)
	if err != nil {
		return nil, err
	}
	unit, err := s.unitRepository.FindUnitEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	j := journal.Decode(unit.EventsJSON)
	events := make([]dto.EventDTO, 0, len(j.Events))
	for _, e := range j.Events {
		events = append(events, eventToDTO(e))
	}
	return events, nil
}

// AddEvent дописывает в журнал событие comment или repair. События status
// клиент не присылает — их порождает только обновление устройства,
// иначе одна смена статуса логировалась бы дважды.
func (s *RepairUnitService) AddEvent(ctx context.Context, key string, payload dto.CreateEventDTO) (*dto.EventDTO, error) {
	id, err := keys.ParseAs(key, keys.RepairUnitPrefix)
	if err != nil {
		return nil, err
	}

	eventType := journal.EventType(payload.Type)
	if eventType != journal.EventComment && eventType != journal.EventRepair {
		return nil, apperrors.ErrInvalidEventType
	}

	assigneeID, err := keys.ParseAs(payload.AssigneeKey, keys.AssigneePrefix)
	if err != nil {
		return nil, err
	}
	assignee, err := s.assigneeRepository.FindAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}

	event := journal.NewEvent(eventType, assignee.Name)
	event.Comment = payload.Comment
	if eventType == journal.EventRepair {
		event.Components = payload.Components
	}

	var orderID uint64
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		unit, err := s.unitRepository.FindUnitForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		orderID = unit.RepairOrderID
		j := journal.Decode(unit.EventsJSON)
		j.Append(event)
		eventsJSON, err := j.Encode()
		if err != nil {
			return err
		}
		unit.EventsJSON = eventsJSON
		return s.unitRepository.UpdateUnitTx(ctx, tx, *unit)
	})
	if err != nil {
		s.logger.Error("ошибка при добавлении события", zap.Error(err), zap.String("key", key))
		return nil, err
	}

	s.invalidateTimeline(ctx, orderID)
	s.logger.Info("Событие добавлено в журнал",
		zap.String("key", key),
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
	)
	eventDTO := eventToDTO(event)
	return &eventDTO, nil
}

func (s *RepairUnitService) RemoveEvent(ctx context.Context, key string, eventID string) error {
	id, err := keys.ParseAs(key, keys.RepairUnitPrefix)
	if err != nil {
		return err
	}

	var orderID uint64
	err = repositories.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		unit, err := s.unitRepository.FindUnitForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		orderID = unit.RepairOrderID
		j := journal.Decode(unit.EventsJSON)
		if err := j.Remove(eventID); err != nil {
			return err
		}
		eventsJSON, err := j.Encode()
		if err != nil {
			return err
		}
		unit.EventsJSON = eventsJSON
		return s.unitRepository.UpdateUnitTx(ctx, tx, *unit)
	})
	if err != nil {
		s.logger.Error("ошибка при удалении события", zap.Error(err), zap.String("key", key), zap.String("event_id", eventID))
		return err
	}

	s.invalidateTimeline(ctx, orderID)
	s.logger.Info("Событие удалено из журнала", zap.String("key", key), zap.String("event_id", eventID))
	return nil
}

func (s *RepairUnitService) invalidateTimeline(ctx context.Context, orderID uint64) {
	cacheKey := timelineCacheKey(keys.Format(keys.RepairOrderPrefix, orderID))
	if err := s.cache.Del(ctx, cacheKey); err != nil {
		s.logger.Warn("не удалось инвалидировать кеш таймлайна", zap.Error(err), zap.String("cache_key", cacheKey))
	}
}
