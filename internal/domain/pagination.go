package domain

import "math"

// Pagination page/size with derived skip/take
type Pagination struct {
	Page int
	Size int
	Skip int
	Take int
}

// NewPagination builds a pagination config; page < 1 and size < 1 fall back
// to 1 and defaultSize, size is capped by maxSize when maxSize > 0,
// page is capped so that Skip never overflows
func NewPagination(page, size, defaultSize, maxSize int) Pagination {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	// (page-1)*size не должен переполнять int
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}

	return Pagination{
		Page: page,
		Size: size,
		Skip: (page - 1) * size,
		Take: size,
	}
}
