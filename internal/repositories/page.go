package repositories

import "gorm.io/gorm"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page selects a window of a listing. Number is 1-based.
type Page struct {
	Number  int
	PerPage int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	p = p.normalized()
	return db.Offset((p.Number - 1) * p.PerPage).Limit(p.PerPage)
}

// PageResult is one page of a listing plus the numbers a client needs to paginate.
type PageResult[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

func newPageResult[T any](data []T, total int64, p Page) PageResult[T] {
	p = p.normalized()
	last := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if last < 1 {
		last = 1
	}
	if data == nil {
		data = []T{}
	}
	return PageResult[T]{Data: data, Total: total, CurrentPage: p.Number, PerPage: p.PerPage, LastPage: last}
}
