package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-tracker/internal/entities"
	"repair-tracker/internal/journal"
)

func statusEvent(status, assignee string, at time.Time) journal.Event {
	e := journal.NewEvent(journal.EventStatus, assignee)
	e.Status = status
	e.Timestamp = at
	return e
}

func unitWithEvents(t *testing.T, id uint64, serial string, unitType entities.UnitType, events ...journal.Event) entities.RepairUnit {
	t.Helper()
	j := &journal.Journal{Events: events}
	raw, err := j.Encode()
	require.NoError(t, err)
	return entities.RepairUnit{
		ID:         id,
		Serial:     serial,
		Type:       unitType,
		EventsJSON: raw,
	}
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildTimelineSingleEvent(t *testing.T) {
	units := []entities.RepairUnit{
		unitWithEvents(t, 1, "SN-001", entities.UnitTypeMachine,
			statusEvent("Backlog", "Анвар", day("2024-03-10T14:30:00Z"))),
	}

	timeline := buildTimeline(indexOrderUnits(units))

	require.Len(t, timeline, 1)
	bucket, ok := timeline["2024-03-10"]
	require.True(t, ok)
	require.Len(t, bucket["Backlog"], 1)
	assert.Equal(t, "SN-001", bucket["Backlog"][0].Serial)
	assert.Equal(t, "RU-1", bucket["Backlog"][0].UnitKey)
	assert.Equal(t, "Анвар", bucket["Backlog"][0].Assignee)
	assert.Len(t, bucket[SeriesTotalUnits], 1)
	assert.Len(t, bucket[SeriesTotalMachines], 1)
	assert.Empty(t, bucket[SeriesTotalHashboards])
}

func TestBuildTimelineForwardFill(t *testing.T) {
	units := []entities.RepairUnit{
		unitWithEvents(t, 1, "SN-001", entities.UnitTypeMachine,
			statusEvent("Backlog", "Анвар", day("2024-03-01T09:00:00Z")),
			statusEvent("Done", "Анвар", day("2024-03-04T17:00:00Z"))),
	}

	timeline := buildTimeline(indexOrderUnits(units))

	require.Len(t, timeline, 4)
	assert.Len(t, timeline["2024-03-01"]["Backlog"], 1)
	assert.Len(t, timeline["2024-03-02"]["Backlog"], 1)
	assert.Len(t, timeline["2024-03-03"]["Backlog"], 1)
	assert.Empty(t, timeline["2024-03-04"]["Backlog"])
	assert.Len(t, timeline["2024-03-04"]["Done"], 1)
	for date := range timeline {
		assert.Len(t, timeline[date][SeriesTotalUnits], 1, date)
	}
}

func TestBuildTimelineUnitAppearsOnFirstEvent(t *testing.T) {
	units := []entities.RepairUnit{
		unitWithEvents(t, 1, "SN-001", entities.UnitTypeMachine,
			statusEvent("Backlog", "", day("2024-03-01T09:00:00Z"))),
		unitWithEvents(t, 2, "SN-002", entities.UnitTypeHashboard,
			statusEvent("Backlog", "", day("2024-03-03T09:00:00Z"))),
	}

	timeline := buildTimeline(indexOrderUnits(units))

	require.Len(t, timeline, 3)
	assert.Len(t, timeline["2024-03-01"][SeriesTotalUnits], 1)
	assert.Len(t, timeline["2024-03-02"][SeriesTotalUnits], 1)
	assert.Len(t, timeline["2024-03-03"][SeriesTotalUnits], 2)
	assert.Len(t, timeline["2024-03-03"][SeriesTotalMachines], 1)
	assert.Len(t, timeline["2024-03-03"][SeriesTotalHashboards], 1)
}

func TestBuildTimelineSameDayLastEventWins(t *testing.T) {
	units := []entities.RepairUnit{
		unitWithEvents(t, 1, "SN-001", entities.UnitTypeMachine,
			statusEvent("Backlog", "", day("2024-03-01T09:00:00Z")),
			statusEvent("In Progress", "", day("2024-03-01T12:00:00Z")),
			statusEvent("Done", "", day("2024-03-01T18:00:00Z"))),
	}

	timeline := buildTimeline(indexOrderUnits(units))

	require.Len(t, timeline, 1)
	bucket := timeline["2024-03-01"]
	assert.Empty(t, bucket["Backlog"])
	assert.Empty(t, bucket["In Progress"])
	assert.Len(t, bucket["Done"], 1)
	assert.Len(t, bucket[SeriesTotalUnits], 1)
}

func TestBuildTimelineEmpty(t *testing.T) {
	assert.Empty(t, buildTimeline(indexOrderUnits(nil)))

	// Устройства без событий смены статуса таймлайн не образуют.
	comment := journal.NewEvent(journal.EventComment, "Анвар")
	comment.Comment = "ожидаем запчасти"
	units := []entities.RepairUnit{
		unitWithEvents(t, 1, "SN-001", entities.UnitTypeMachine, comment),
	}
	assert.Empty(t, buildTimeline(indexOrderUnits(units)))
}

func TestIndexOrderUnitsSortsAndFilters(t *testing.T) {
	comment := journal.NewEvent(journal.EventComment, "Шариф")
	comment.Comment = "диагностика"
	comment.Timestamp = day("2024-03-02T10:00:00Z")

	units := []entities.RepairUnit{
		unitWithEvents(t, 2, "SN-B", entities.UnitTypeHashboard,
			statusEvent("Backlog", "", day("2024-03-01T09:00:00Z"))),
		unitWithEvents(t, 1, "SN-A", entities.UnitTypeMachine,
			statusEvent("Done", "Анвар", day("2024-03-05T09:00:00Z")),
			statusEvent("Backlog", "", day("2024-03-01T09:00:00Z")),
			comment),
	}

	histories := indexOrderUnits(units)

	require.Len(t, histories, 2)
	assert.Equal(t, "SN-A", histories[0].serial)
	assert.Equal(t, "SN-B", histories[1].serial)

	// Комментарии отброшены, статусные события упорядочены по времени.
	require.Len(t, histories[0].statusEvents, 2)
	assert.Equal(t, "Backlog", histories[0].statusEvents[0].Status)
	assert.Equal(t, "Done", histories[0].statusEvents[1].Status)

	// Последний исполнитель берётся по всему журналу, включая комментарии.
	assert.Equal(t, "Шариф", histories[0].lastAssignee)
}

func TestTimelineCacheKey(t *testing.T) {
	assert.Equal(t, "timeline:RO-7", timelineCacheKey("RO-7"))
}
