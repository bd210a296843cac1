package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type RepairOrder struct {
	ID       uint64    `db:"id"`
	Name     string    `db:"name"`
	StatusID uint64    `db:"status_id"`
	Summary  *string   `db:"summary"`
	Created  time.Time `db:"created"`
	Received null.Time `db:"received"`
	Finished null.Time `db:"finished"`
}
