package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// ParsePagination строит параметры пагинации из query (page, size или take)
// Никогда не возвращает ошибку: отсутствующие и некорректные значения
// заменяются значениями по умолчанию
func ParsePagination(query url.Values, defaultSize, maxSize int) domain.Pagination {
	page := parsePositiveInt(query.Get("page"))

	size := parsePositiveInt(query.Get("size"))
	if size == 0 {
		size = parsePositiveInt(query.Get("take"))
	}

	return domain.NewPagination(page, size, defaultSize, maxSize)
}

// parsePositiveInt возвращает 0 для пустых, нечисловых и неположительных значений
func parsePositiveInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return 0
	}
	return v
}
