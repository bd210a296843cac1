package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/entities"
	"repair-tracker/internal/journal"
	"repair-tracker/internal/repositories"
	"repair-tracker/pkg/keys"
)

// Имена агрегатных серий таймлайна. Присутствуют в каждом дне.
const (
	SeriesTotalUnits      = "Total Units"
	SeriesTotalMachines   = "Total Machines"
	SeriesTotalHashboards = "Total Hashboards"
)

const dateLayout = "2006-01-02"

type TimelineServiceInterface interface {
	BuildTimeline(ctx context.Context, orderKey string) (dto.TimelineDTO, error)
	GetStatusEvents(ctx context.Context, orderKey string) ([]dto.UnitStatusEventsDTO, error)
}

type TimelineService struct {
	orderRepository repositories.RepairOrderRepositoryInterface
	unitRepository  repositories.RepairUnitRepositoryInterface
	cache           repositories.CacheRepositoryInterface
	cacheTTL        time.Duration
	logger          *zap.Logger
}

func NewTimelineService(
	orderRepository repositories.RepairOrderRepositoryInterface,
	unitRepository repositories.RepairUnitRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) TimelineServiceInterface {
	return &TimelineService{
		orderRepository: orderRepository,
		unitRepository:  unitRepository,
		cache:           cache,
		cacheTTL:        cacheTTL,
		logger:          logger,
	}
}

func timelineCacheKey(orderKey string) string {
	return "timeline:" + orderKey
}

// BuildTimeline строит по журналам устройств заказа таблицу занятости:
// календарный день -> серия (статус или агрегат) -> устройства в ней.
func (s *TimelineService) BuildTimeline(ctx context.Context, orderKey string) (dto.TimelineDTO, error) {
	orderID, err := keys.ParseAs(orderKey, keys.RepairOrderPrefix)
	if err != nil {
		return nil, err
	}

	cacheKey := timelineCacheKey(orderKey)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var timeline dto.TimelineDTO
		if err := json.Unmarshal([]byte(cached), &timeline); err == nil {
			s.logger.Debug("Таймлайн взят из кеша", zap.String("order", orderKey))
			return timeline, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("кеш таймлайна недоступен", zap.Error(err), zap.String("order", orderKey))
	}

	// Несуществующий заказ — NotFound; заказ без устройств — пустой таймлайн.
	if _, err := s.orderRepository.FindOrder(ctx, orderID); err != nil {
		return nil, err
	}
	units, err := s.unitRepository.FindUnitsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	timeline := buildTimeline(indexOrderUnits(units))

	if data, err := json.Marshal(timeline); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(data), s.cacheTTL); err != nil {
			s.logger.Warn("не удалось записать таймлайн в кеш", zap.Error(err), zap.String("order", orderKey))
		}
	}

	s.logger.Info("Таймлайн сформирован", zap.String("order", orderKey), zap.Int("days", len(timeline)))
	return timeline, nil
}

// GetStatusEvents отдаёт хронологию смен статуса по каждому устройству заказа.
func (s *TimelineService) GetStatusEvents(ctx context.Context, orderKey string) ([]dto.UnitStatusEventsDTO, error) {
	orderID, err := keys.ParseAs(orderKey, keys.RepairOrderPrefix)
	if err != nil {
		return nil, err
	}
	if _, err := s.orderRepository.FindOrder(ctx, orderID); err != nil {
		return nil, err
	}
	units, err := s.unitRepository.FindUnitsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UnitStatusEventsDTO, 0, len(units))
	for _, h := range indexOrderUnits(units) {
		statusEvents := make([]dto.EventDTO, 0, len(h.statusEvents))
		for _, e := range h.statusEvents {
			statusEvents = append(statusEvents, eventToDTO(e))
		}
		result = append(result, dto.UnitStatusEventsDTO{
			Serial:       h.serial,
			UnitKey:      h.unitKey,
			UnitType:     string(h.unitType),
			StatusEvents: statusEvents,
		})
	}
	return result, nil
}

// unitHistory — вход построителя таймлайна: одно устройство и его
// отсортированные по времени события смены статуса.
type unitHistory struct {
	serial       string
	unitKey      string
	unitType     entities.UnitType
	lastAssignee string
	statusEvents []journal.Event
}

// indexOrderUnits извлекает из журналов устройств события смены статуса.
// Устройства без таких событий остаются в списке с пустой историей.
// Внешний список отсортирован по серийному номеру.
func indexOrderUnits(units []entities.RepairUnit) []unitHistory {
	histories := make([]unitHistory, 0, len(units))
	for _, unit := range units {
		j := journal.Decode(unit.EventsJSON)

		statusEvents := make([]journal.Event, 0)
		for _, e := range j.StatusEvents() {
			// Запись без имени статуса бесполезна для таймлайна.
			if e.Status != "" {
				statusEvents = append(statusEvents, e)
			}
		}

		histories = append(histories, unitHistory{
			serial:       unit.Serial,
			unitKey:      keys.Format(keys.RepairUnitPrefix, unit.ID),
			unitType:     unit.Type,
			lastAssignee: j.LastAssignee(),
			statusEvents: statusEvents,
		})
	}
	sort.SliceStable(histories, func(a, b int) bool {
		return histories[a].serial < histories[b].serial
	})
	return histories
}

// buildTimeline раскладывает истории статусов по календарным дням.
// Диапазон — от самого раннего события до самого позднего, без пропусков.
// Статус устройства на день X — последнее событие с датой <= X
// (forward-fill); дни до первого события устройства не попадают
// ни в одну серию.
func buildTimeline(histories []unitHistory) dto.TimelineDTO {
	timeline := dto.TimelineDTO{}

	var startDate, endDate time.Time
	haveEvents := false
	for _, h := range histories {
		for _, e := range h.statusEvents {
			day := dateOf(e.Timestamp)
			if !haveEvents || day.Before(startDate) {
				startDate = day
			}
			if !haveEvents || day.After(endDate) {
				endDate = day
			}
			haveEvents = true
		}
	}
	if !haveEvents {
		return timeline
	}

	cursor := make([]int, len(histories))
	current := make([]string, len(histories))

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		bucket := map[string][]dto.TimelineUnitDTO{
			SeriesTotalUnits:      {},
			SeriesTotalMachines:   {},
			SeriesTotalHashboards: {},
		}

		for i, h := range histories {
			for cursor[i] < len(h.statusEvents) && !dateOf(h.statusEvents[cursor[i]].Timestamp).After(day) {
				current[i] = h.statusEvents[cursor[i]].Status
				cursor[i]++
			}
			if current[i] == "" {
				continue
			}

			summary := dto.TimelineUnitDTO{
				Serial:   h.serial,
				Type:     string(h.unitType),
				UnitKey:  h.unitKey,
				Assignee: h.lastAssignee,
			}
			bucket[current[i]] = append(bucket[current[i]], summary)
			bucket[SeriesTotalUnits] = append(bucket[SeriesTotalUnits], summary)
			switch h.unitType {
			case entities.UnitTypeMachine:
				bucket[SeriesTotalMachines] = append(bucket[SeriesTotalMachines], summary)
			case entities.UnitTypeHashboard:
				bucket[SeriesTotalHashboards] = append(bucket[SeriesTotalHashboards], summary)
			}
		}

		timeline[day.Format(dateLayout)] = bucket
	}

	return timeline
}

// dateOf — календарная дата события по UTC.
func dateOf(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

func eventToDTO(e journal.Event) dto.EventDTO {
	return dto.EventDTO{
		ID:         e.ID,
		Type:       string(e.Type),
		Assignee:   e.Assignee,
		Timestamp:  e.Timestamp.UTC().Format(time.RFC3339),
		Status:     e.Status,
		Comment:    e.Comment,
		Components: e.Components,
	}
}
