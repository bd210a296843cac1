package types

// Filter — разобранные параметры списочных запросов (filter[...], sort[...], пагинация).
type Filter struct {
	Search         string
	Filter         map[string]interface{}
	Sort           map[string]string
	Limit          int
	Offset         int
	Page           int
	WithPagination bool
}
