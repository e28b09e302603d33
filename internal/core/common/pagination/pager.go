package pagination

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 500
)

// Pager is the page descriptor returned with every paged list.
type Pager struct {
	Current   int   `json:"current"`
	LastPage  int   `json:"lastPage"`
	NextPage  int   `json:"nextPage"`
	PageSize  int   `json:"pageSize"`
	TotalPage int   `json:"totalPage"`
	Total     int64 `json:"total"`
}

// Page wraps one page of records.
type Page[T any] struct {
	Records []T   `json:"records"`
	Pager   Pager `json:"pager"`
}

// Params is the common query string of paged endpoints.
type Params struct {
	Current int `json:"current" validate:"omitempty,min=1"`
	Size    int `json:"size" validate:"omitempty,min=1,max=500"`
}

func (p Params) Normalize() Params {
	if p.Current < 1 {
		p.Current = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the zero-based row where the page starts.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Current - 1) * n.Size
}

func NewPager(current, pageSize int, total int64) Pager {
	if current < 1 {
		current = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPage := int(math.Ceil(float64(total) / float64(pageSize)))

	last := current - 1
	if current == 1 {
		last = 1
	}
	next := totalPage
	if current < totalPage {
		next = current + 1
	}

	return Pager{
		Current:   current,
		LastPage:  last,
		NextPage:  next,
		PageSize:  pageSize,
		TotalPage: totalPage,
		Total:     total,
	}
}

func NewPage[T any](records []T, params Params, total int64) Page[T] {
	p := params.Normalize()
	if records == nil {
		records = []T{}
	}
	return Page[T]{Records: records, Pager: NewPager(p.Current, p.Size, total)}
}
