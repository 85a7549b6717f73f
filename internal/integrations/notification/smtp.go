package notification

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// SMTPConfig параметры SMTP-сервера
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	TLS      bool
}

// SMTPNotifier отправляет ссылку на отчёт письмом
type SMTPNotifier struct {
	from   string
	sender mailSender
	log    Logger
}

// NewSMTPNotifier создаёт отправителя писем поверх go-mail
func NewSMTPNotifier(cfg SMTPConfig, log Logger) (*SMTPNotifier, error) {
	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}

	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("notification: create smtp client: %w", err)
	}

	return newSMTPNotifier(cfg.From, client, log), nil
}

func newSMTPNotifier(from string, sender mailSender, log Logger) *SMTPNotifier {
	return &SMTPNotifier{from: from, sender: sender, log: log}
}

// Channel название канала доставки
func (n *SMTPNotifier) Channel() string {
	return ChannelSMTP
}

// NotifyReportReady отправляет получателю письмо со ссылкой на отчёт
func (n *SMTPNotifier) NotifyReportReady(ctx context.Context, recipient, url string) (*domain.NotificationResult, error) {
	recipient = strings.TrimSpace(recipient)
	if _, err := mail.ParseAddress(recipient); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, recipient)
	}

	msg, messageID, err := n.buildMessage(recipient, url)
	if err != nil {
		return nil, err
	}

	n.log.Info("NotifyReportReady: sending report link to %s, message_id=%s", recipient, messageID)

	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		n.log.Error("NotifyReportReady: smtp delivery to %s failed: %v", recipient, err)
		return nil, fmt.Errorf("%w: smtp: %v", ErrDelivery, err)
	}

	return &domain.NotificationResult{
		Channel:   ChannelSMTP,
		Recipient: recipient,
		MessageID: messageID,
		Queued:    false,
	}, nil
}

func (n *SMTPNotifier) buildMessage(recipient, url string) (*gomail.Msg, string, error) {
	msg := gomail.NewMsg()

	if err := msg.From(n.from); err != nil {
		return nil, "", fmt.Errorf("notification: invalid sender %q: %w", n.from, err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}

	messageID := uuid.NewString()
	msg.SetMessageIDWithValue(messageID)
	msg.SetDate()
	msg.Subject(reportSubject)
	msg.SetBodyString(gomail.TypeTextPlain, reportBody(url))

	return msg, messageID, nil
}
