package generate_report

import (
	"strconv"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var statusLabels = map[domain.BookingStatus]string{
	domain.StatusPending:   "Pendente",
	domain.StatusActive:    "Ativa",
	domain.StatusConfirmed: "Confirmada",
	domain.StatusCancelled: "Cancelada",
	domain.StatusFinished:  "Finalizada",
}

// ToReportRows превращает бронирования в строки отчёта
// Порядок и количество сохраняются, входной слайс не изменяется
func ToReportRows(bookings []*domain.Booking) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(bookings))

	for _, b := range bookings {
		if b == nil {
			rows = append(rows, domain.ReportRow{})
			continue
		}

		description := ""
		if b.Description != nil {
			description = *b.Description
		}

		rows = append(rows, domain.ReportRow{
			BookingID:   strconv.FormatInt(b.ID, 10),
			Date:        b.Date.Format(domain.ReportDateFormat),
			StartTime:   b.StartTime.String(),
			EndTime:     b.EndTime.String(),
			Room:        displayName(b.RoomName, b.RoomID),
			User:        displayName(b.UserName, b.UserID),
			Company:     displayName(b.CompanyName, b.CompanyID),
			Status:      statusLabel(b.Status),
			Title:       b.Title,
			Description: description,
		})
	}

	return rows
}

// displayName имя сущности, а если оно не найдено - её идентификатор
func displayName(name string, id int64) string {
	if name != "" {
		return name
	}
	return "#" + strconv.FormatInt(id, 10)
}

func statusLabel(status domain.BookingStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}
