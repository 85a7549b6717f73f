package notification

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

var (
	// ErrInvalidRecipient пустой или некорректный адрес получателя
	ErrInvalidRecipient = fmt.Errorf("notification: recipient %w", domain.ErrInvalidInput)

	// ErrDelivery не удалось отправить уведомление
	ErrDelivery = errors.New("notification: delivery failed")
)
