package entities

type Assignee struct {
	ID   uint64 `db:"id"`
	Name string `db:"name"`
}
