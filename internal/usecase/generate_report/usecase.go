package generate_report

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

const (
	resultSuccess = "success"
	resultError   = "error"

	defaultBatchSize = 500
)

// UseCase use case для генерации CSV-отчёта по бронированиям
type UseCase struct {
	bookingRepo BookingRepository
	store       ReportStore
	notifier    Notifier
	txManager   TransactionManager
	metrics     Metrics
	batchSize   int
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	store ReportStore,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	batchSize int,
	logger Logger,
) *UseCase {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &UseCase{
		bookingRepo: bookingRepo,
		store:       store,
		notifier:    notifier,
		txManager:   txManager,
		metrics:     metrics,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// Execute формирует отчёт за период и отправляет ссылку на него автору запроса
// Данные читаются порциями по batchSize в одной read-only транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateReport: user=%d, permission=%d, period=%s..%s",
		req.User.ID, req.User.PermissionID, req.Start, req.End)

	// 1. Валидация периода
	from, to, err := parsePeriod(req.Start, req.End)
	if err != nil {
		uc.logger.Warn("GenerateReport: validation failed: %v", err)
		return nil, err
	}

	// 2. Область видимости пользователя
	filter := domain.BookingFilter{DateFrom: &from, DateTo: &to}
	if req.User.IsCompanyScoped() {
		if req.User.CompanyID == nil {
			uc.logger.Warn("GenerateReport: company-scoped user=%d has no company", req.User.ID)
			return nil, ErrAccessDenied
		}
		filter.CompanyID = req.User.CompanyID
	}
	if req.UserID != nil && *req.UserID > 0 {
		filter.UserID = req.UserID
	}

	// 3. Выгрузка в файл
	filename := reportFilename(from, to, uuid.NewString())
	rows, total, err := uc.export(ctx, filename, filter)
	if err != nil {
		uc.metrics.ObserveReport(resultError)
		return nil, err
	}
	uc.metrics.ObserveReport(resultSuccess)

	uc.logger.Info("GenerateReport: file=%s written, rows=%d, matched=%d", filename, rows, total)

	// 4. Ссылка и уведомление
	link := strings.TrimRight(req.BaseURL, "/") + DownloadPath + url.PathEscape(filename)

	notification, err := uc.notifier.NotifyReportReady(ctx, req.User.Login, link)
	if err != nil {
		uc.metrics.ObserveNotification(uc.notifier.Channel(), resultError)
		uc.logger.Error("GenerateReport: notify %s failed: %v", req.User.Login, err)
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNotification, err)
	}
	uc.metrics.ObserveNotification(notification.Channel, resultSuccess)

	return &Response{
		Filename:     filename,
		URL:          link,
		Rows:         rows,
		Total:        total,
		Notification: notification,
	}, nil
}

// export пишет отчёт порциями по batchSize; при ошибке недописанный файл удаляется
func (uc *UseCase) export(ctx context.Context, filename string, filter domain.BookingFilter) (int, int64, error) {
	writer, err := uc.store.Create(filename)
	if err != nil {
		uc.logger.Error("GenerateReport: create file %s: %v", filename, err)
		return 0, 0, fmt.Errorf("%w: %v", ErrExport, err)
	}
	defer func() { _ = writer.Abort() }()

	var total int64
	err = uc.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		count, err := uc.bookingRepo.CountByFilter(ctx, filter)
		if err != nil {
			return fmt.Errorf("%w: count: %v", ErrInternal, err)
		}
		total = count

		for offset := 0; ; offset += uc.batchSize {
			if err := ctx.Err(); err != nil {
				return err
			}

			batch, err := uc.bookingRepo.ListChronological(ctx, filter, uc.batchSize, offset)
			if err != nil {
				return fmt.Errorf("%w: batch offset=%d: %v", ErrInternal, offset, err)
			}

			if err := writer.Write(ToReportRows(batch)); err != nil {
				return fmt.Errorf("%w: %v", ErrExport, err)
			}

			if len(batch) < uc.batchSize {
				return nil
			}
		}
	})
	if err != nil {
		uc.logger.Error("GenerateReport: export %s failed: %v", filename, err)
		return 0, 0, err
	}

	if err := writer.Commit(); err != nil {
		uc.logger.Error("GenerateReport: commit %s failed: %v", filename, err)
		return 0, 0, fmt.Errorf("%w: %v", ErrExport, err)
	}

	return writer.Rows(), total, nil
}
