package notification

import (
	"fmt"
	"time"
)

const (
	ChannelSMTP = "smtp"
	ChannelAMQP = "amqp"
)

const reportSubject = "Relatório de reservas"

// ReportReadyEvent сообщение о готовом отчёте, публикуемое в очередь
type ReportReadyEvent struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func reportBody(url string) string {
	return fmt.Sprintf("Olá!\n\nSeu relatório de reservas foi gerado e está disponível para download:\n%s\n", url)
}
