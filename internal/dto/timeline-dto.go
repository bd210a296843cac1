package dto

// TimelineUnitDTO — одна позиция в серии таймлайна.
// Assignee — живой снимок "кто последним трогал устройство" на момент
// запроса, одинаковый для всех дней таймлайна.
type TimelineUnitDTO struct {
	Serial   string `json:"serial"`
	Type     string `json:"type"`
	UnitKey  string `json:"unit_key"`
	Assignee string `json:"assignee,omitempty"`
}

// TimelineDTO: ISO-дата -> имя серии -> устройства, находившиеся в ней в этот день.
type TimelineDTO map[string]map[string][]TimelineUnitDTO

// UnitStatusEventsDTO — история смен статуса одного устройства.
type UnitStatusEventsDTO struct {
	Serial       string     `json:"serial"`
	UnitKey      string     `json:"unit_key"`
	UnitType     string     `json:"unit_type"`
	StatusEvents []EventDTO `json:"status_events"`
}
