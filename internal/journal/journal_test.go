package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "repair-tracker/pkg/errors"
)

func TestJournal_AppendEncodeDecode_RoundTrip(t *testing.T) {
	j := Journal{}

	statusEvent := NewEvent(EventStatus, "Иванов")
	statusEvent.Status = "Backlog"
	j.Append(statusEvent)

	commentEvent := NewEvent(EventComment, "Петров")
	commentEvent.Comment = "Плата залита, нужна мойка"
	j.Append(commentEvent)

	repairEvent := NewEvent(EventRepair, "Петров")
	repairEvent.Comment = "Заменены чипы"
	repairEvent.Components = []string{"BM1398", "R0402"}
	j.Append(repairEvent)

	raw, err := j.Encode()
	require.NoError(t, err)

	decoded := Decode(raw)
	require.Len(t, decoded.Events, 3)

	for i, e := range decoded.Events {
		assert.Equal(t, j.Events[i].ID, e.ID)
		assert.Equal(t, j.Events[i].Type, e.Type)
		assert.Equal(t, j.Events[i].Assignee, e.Assignee)
		assert.True(t, j.Events[i].Timestamp.Equal(e.Timestamp))
		assert.Equal(t, j.Events[i].Status, e.Status)
		assert.Equal(t, j.Events[i].Comment, e.Comment)
		assert.Equal(t, j.Events[i].Components, e.Components)
	}
}

func TestDecode_Lenient(t *testing.T) {
	// Битый JSON целиком — пустой журнал, а не ошибка.
	assert.Empty(t, Decode("{не json").Events)
	assert.Empty(t, Decode("").Events)
	assert.Empty(t, Decode("null").Events)

	// Нераспознанные записи пропускаются, валидные остаются.
	raw := `{"events":[
		{"id":"e1","type":"status","assignee":"Иванов","timestamp":"2024-03-01T10:00:00Z","status":"Backlog"},
		{"id":"e2","type":"unknown","assignee":"Иванов","timestamp":"2024-03-01T11:00:00Z"},
		{"id":"e3","type":"comment","assignee":"Иванов","timestamp":"не дата"},
		{"id":"e4","type":"comment","assignee":"Иванов","timestamp":"2024-03-02T10:00:00Z","comment":"ок"}
	]}`
	j := Decode(raw)
	require.Len(t, j.Events, 2)
	assert.Equal(t, "e1", j.Events[0].ID)
	assert.Equal(t, "e4", j.Events[1].ID)
}

func TestJournal_Remove(t *testing.T) {
	j := Journal{}
	first := NewEvent(EventComment, "Иванов")
	second := NewEvent(EventComment, "Петров")
	third := NewEvent(EventComment, "Сидоров")
	j.Append(first)
	j.Append(second)
	j.Append(third)

	require.NoError(t, j.Remove(second.ID))
	require.Len(t, j.Events, 2)
	assert.Equal(t, first.ID, j.Events[0].ID)
	assert.Equal(t, third.ID, j.Events[1].ID)

	// Повторное удаление того же ID — EventNotFound, журнал не меняется.
	err := j.Remove(second.ID)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	assert.Len(t, j.Events, 2)
}

func TestJournal_StatusEvents_SortedByTimestamp(t *testing.T) {
	j := Journal{}

	// События добавлены не в хронологическом порядке.
	late := NewEvent(EventStatus, "Иванов")
	late.Status = "Done"
	late.Timestamp = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	early := NewEvent(EventStatus, "Иванов")
	early.Status = "Backlog"
	early.Timestamp = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	comment := NewEvent(EventComment, "Петров")
	comment.Comment = "между делом"
	comment.Timestamp = time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)

	j.Append(late)
	j.Append(comment)
	j.Append(early)

	statusEvents := j.StatusEvents()
	require.Len(t, statusEvents, 2)
	assert.Equal(t, "Backlog", statusEvents[0].Status)
	assert.Equal(t, "Done", statusEvents[1].Status)
}

func TestJournal_StatusEvents_StableOnEqualTimestamps(t *testing.T) {
	j := Journal{}
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, name := range []string{"Backlog", "In Progress", "Done"} {
		e := NewEvent(EventStatus, "Иванов")
		e.Status = name
		e.Timestamp = ts
		j.Append(e)
	}

	statusEvents := j.StatusEvents()
	require.Len(t, statusEvents, 3)
	assert.Equal(t, "Backlog", statusEvents[0].Status)
	assert.Equal(t, "In Progress", statusEvents[1].Status)
	assert.Equal(t, "Done", statusEvents[2].Status)
}

func TestJournal_LastAssignee(t *testing.T) {
	j := Journal{}
	assert.Empty(t, j.LastAssignee())

	e1 := NewEvent(EventStatus, "Иванов")
	e1.Status = "Backlog"
	j.Append(e1)
	e2 := NewEvent(EventComment, "Петров")
	j.Append(e2)

	assert.Equal(t, "Петров", j.LastAssignee())
}
