// Пакет journal — журнал событий устройства: append-only лог записей
// типа status/comment/repair, хранящийся в колонке events_json устройства.
package journal

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "repair-tracker/pkg/errors"
)

type EventType string

const (
	EventStatus  EventType = "status"
	EventComment EventType = "comment"
	EventRepair  EventType = "repair"
)

func (t EventType) Valid() bool {
	switch t {
	case EventStatus, EventComment, EventRepair:
		return true
	}
	return false
}

// Event — одна запись журнала. Общие поля заполнены всегда, остальные
// зависят от типа: status несёт имя статуса, comment — текст,
// repair — текст и список заменённых компонентов.
// Assignee — снимок имени на момент события, а не живая ссылка:
// переименование исполнителя историю не переписывает.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Assignee   string    `json:"assignee"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	Components []string  `json:"components,omitempty"`
}

// NewEvent создаёт событие со свежим ID и серверной меткой времени.
// Метку времени ставит сервер, а не клиент, чтобы не зависеть от его часов.
func NewEvent(eventType EventType, assignee string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Assignee:  assignee,
		Timestamp: time.Now().UTC(),
	}
}

// Journal — упорядоченный список событий одного устройства.
// Порядок хранения — порядок добавления; он НЕ обязан совпадать с порядком
// по меткам времени, поэтому хронологические потребители сортируют сами.
type Journal struct {
	Events []Event `json:"events"`
}

// Decode разбирает сохранённый журнал. Декодирование намеренно "мягкое":
// битый JSON даёт пустой журнал, нераспознанные записи пропускаются.
// Чтение устройства никогда не падает из-за испорченного журнала.
func Decode(raw string) Journal {
	if raw == "" {
		return Journal{}
	}

	var envelope struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return Journal{}
	}

	j := Journal{}
	for _, entry := range envelope.Events {
		var e Event
		if err := json.Unmarshal(entry, &e); err != nil {
			continue
		}
		if !e.Type.Valid() {
			continue
		}
		j.Events = append(j.Events, e)
	}
	return j
}

// Encode сериализует журнал в текст для колонки events_json.
func (j *Journal) Encode() (string, error) {
	if j.Events == nil {
		j.Events = []Event{}
	}
	data, err := json.Marshal(j)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Append дописывает событие в конец журнала.
func (j *Journal) Append(e Event) {
	j.Events = append(j.Events, e)
}

// Remove удаляет первое событие с данным ID, сохраняя порядок остальных.
func (j *Journal) Remove(eventID string) error {
	for i, e := range j.Events {
		if e.ID == eventID {
			j.Events = append(j.Events[:i], j.Events[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEventNotFound
}

// StatusEvents возвращает только события смены статуса, отсортированные
// по метке времени по возрастанию. Сортировка стабильная: при равных
// метках сохраняется исходный порядок журнала.
func (j *Journal) StatusEvents() []Event {
	statusEvents := make([]Event, 0)
	for _, e := range j.Events {
		if e.Type == EventStatus {
			statusEvents = append(statusEvents, e)
		}
	}
	sort.SliceStable(statusEvents, func(a, b int) bool {
		return statusEvents[a].Timestamp.Before(statusEvents[b].Timestamp)
	})
	return statusEvents
}

// LastAssignee — имя исполнителя из последнего по порядку добавления события
// любого типа. Это живой снимок "кто последним трогал устройство".
func (j *Journal) LastAssignee() string {
	if len(j.Events) == 0 {
		return ""
	}
	return j.Events[len(j.Events)-1].Assignee
}
