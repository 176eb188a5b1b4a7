package pagination

const (
	DefaultPage  = 1
	PageSize     = 12
	MaxPageSize  = 100
	DefaultLimit = 50
)

// Page is one page of items plus navigation metadata.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
}

// Normalize clamps page and size to sane values.
func Normalize(page, size, defSize int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = defSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func Offset(page, size int) int {
	return (page - 1) * size
}

// New wraps an already-fetched page of a larger result set.
func New[T any](items []T, page, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: size,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  int64(page*size) < total,
	}
}

// Slice pages through an in-memory list.
func Slice[T any](items []T, page, size int) Page[T] {
	page, size = Normalize(page, size, PageSize)

	total := len(items)
	start := Offset(page, size)
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return New(items[start:end], page, size, int64(total))
}
