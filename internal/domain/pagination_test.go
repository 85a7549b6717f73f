package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       Pagination
	}{
		{name: "explicit values", page: 3, size: 20, want: Pagination{Page: 3, Size: 20, Skip: 40, Take: 20}},
		{name: "zero page", page: 0, size: 5, want: Pagination{Page: 1, Size: 5, Skip: 0, Take: 5}},
		{name: "negative size", page: 2, size: -1, want: Pagination{Page: 2, Size: 10, Skip: 10, Take: 10}},
		{name: "size over max", page: 1, size: 1000, want: Pagination{Page: 1, Size: 50, Skip: 0, Take: 50}},
		{name: "page overflows skip", page: math.MaxInt, size: 20, want: Pagination{Page: math.MaxInt / 20, Size: 20, Skip: (math.MaxInt/20 - 1) * 20, Take: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.size, 10, 50))
		})
	}
}

func TestNewPagination_InvalidDefault(t *testing.T) {
	p := NewPagination(1, 0, 0, 0)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, DefaultPageSize, p.Take)
}

func TestBookingStatus_IsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, BookingStatus("active").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestAuthUser_IsCompanyScoped(t *testing.T) {
	assert.True(t, AuthUser{PermissionID: PermissionCompanyScoped}.IsCompanyScoped())
	assert.False(t, AuthUser{PermissionID: 1}.IsCompanyScoped())
}
