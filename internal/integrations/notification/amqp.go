package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// amqpChannel подмножество методов *amqp.Channel, используемых издателем
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpDialer открывает соединение и канал к брокеру
type amqpDialer func(url string) (amqpChannel, io.Closer, error)

func dialAMQP(url string) (amqpChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	return ch, conn, nil
}

// AMQPNotifier публикует событие о готовом отчёте в очередь RabbitMQ;
// письмо отправляет отдельный потребитель очереди
type AMQPNotifier struct {
	url   string
	queue string
	dial  amqpDialer
	log   Logger

	mu   sync.Mutex
	ch   amqpChannel
	conn io.Closer
}

// NewAMQPNotifier создаёт издателя; соединение открывается при первой публикации
func NewAMQPNotifier(url, queue string, log Logger) *AMQPNotifier {
	return newAMQPNotifier(url, queue, dialAMQP, log)
}

func newAMQPNotifier(url, queue string, dial amqpDialer, log Logger) *AMQPNotifier {
	return &AMQPNotifier{url: url, queue: queue, dial: dial, log: log}
}

// Channel название канала доставки
func (n *AMQPNotifier) Channel() string {
	return ChannelAMQP
}

// NotifyReportReady публикует persistent-сообщение со ссылкой на отчёт
// При ошибке публикации соединение сбрасывается и переоткрывается при следующем вызове
func (n *AMQPNotifier) NotifyReportReady(ctx context.Context, recipient, url string) (*domain.NotificationResult, error) {
	recipient = strings.TrimSpace(recipient)
	if _, err := mail.ParseAddress(recipient); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, recipient)
	}

	body, err := json.Marshal(ReportReadyEvent{
		Recipient: recipient,
		Subject:   reportSubject,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("notification: marshal event: %w", err)
	}

	messageID := uuid.NewString()
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ch, err := n.channel()
	if err != nil {
		n.log.Error("NotifyReportReady: rabbitmq unavailable: %v", err)
		return nil, fmt.Errorf("%w: amqp: %v", ErrDelivery, err)
	}

	if err := ch.PublishWithContext(ctx, "", n.queue, false, false, pub); err != nil {
		n.log.Error("NotifyReportReady: publish to queue=%s failed: %v", n.queue, err)
		n.reset()
		return nil, fmt.Errorf("%w: amqp publish: %v", ErrDelivery, err)
	}

	n.log.Info("NotifyReportReady: queued report link for %s, message_id=%s", recipient, messageID)

	return &domain.NotificationResult{
		Channel:   ChannelAMQP,
		Recipient: recipient,
		MessageID: messageID,
		Queued:    true,
	}, nil
}

// Close закрывает канал и соединение
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.reset()
	return nil
}

// channel возвращает открытый канал, открывая его при необходимости
// Вызывается под мьютексом
func (n *AMQPNotifier) channel() (amqpChannel, error) {
	if n.ch != nil {
		return n.ch, nil
	}

	ch, conn, err := n.dial(n.url)
	if err != nil {
		return nil, err
	}

	// очередь durable, чтобы сообщения переживали рестарт брокера
	if _, err := ch.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if conn != nil {
			_ = conn.Close()
		}
		return nil, fmt.Errorf("declare queue %s: %w", n.queue, err)
	}

	n.ch = ch
	n.conn = conn
	return ch, nil
}

func (n *AMQPNotifier) reset() {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
	n.ch = nil
	n.conn = nil
}
