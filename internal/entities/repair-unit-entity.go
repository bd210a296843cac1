package entities

import (
	"time"
)

type UnitType string

const (
	UnitTypeMachine   UnitType = "machine"
	UnitTypeHashboard UnitType = "hashboard"
)

func (t UnitType) Valid() bool {
	return t == UnitTypeMachine || t == UnitTypeHashboard
}

type RepairUnit struct {
	ID                uint64    `db:"id"`
	Serial            string    `db:"serial"`
	Type              UnitType  `db:"type"`
	CurrentStatusID   uint64    `db:"current_status_id"`
	CurrentAssigneeID *uint64   `db:"current_assignee_id"`
	RepairOrderID     uint64    `db:"repair_order_id"`
	Created           time.Time `db:"created"`
	UpdatedAt         time.Time `db:"updated_at"`
	EventsJSON        string    `db:"events_json"`
}
