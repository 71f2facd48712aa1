package classrooms

import (
	"time"

	"github.com/classtrack/classrooms/v1/repository"
)

// SearchQuery narrows a paginated listing. Zero fields are ignored.
type SearchQuery struct {
	// Name filters by substring match on the name column.
	Name string

	// CreatedFrom and CreatedTo bound the creation timestamp (inclusive).
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	Page int
	Size int
}

// filters translates the query into repository filters for the given name
// column.
func (q SearchQuery) filters(nameField string) repository.Filters {
	f := repository.Filters{}
	if q.Name != "" {
		f[nameField] = repository.Clause{Like: "%" + q.Name + "%"}
	}
	if q.CreatedFrom != nil || q.CreatedTo != nil {
		c := repository.Clause{}
		if q.CreatedFrom != nil {
			c.Gte = *q.CreatedFrom
		}
		if q.CreatedTo != nil {
			c.Lte = *q.CreatedTo
		}
		f["created_at"] = c
	}
	return f
}
