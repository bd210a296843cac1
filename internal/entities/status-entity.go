package entities

type Status struct {
	ID   uint64 `db:"id"`
	Name string `db:"name"`
}
