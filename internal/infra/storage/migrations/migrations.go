package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DB источник транзакций (*sql.DB)
type DB interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Apply выполняет *.sql из dir в лексикографическом порядке, каждый файл в своей транзакции
// Скрипты должны быть идемпотентными (CREATE ... IF NOT EXISTS): применяются при каждом старте
// Пустой dir или отсутствие файлов - не ошибка
func Apply(ctx context.Context, db DB, dir string, log Logger) (int, error) {
	if dir == "" {
		return 0, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return 0, fmt.Errorf("migrations: glob %s: %w", dir, err)
	}
	sort.Strings(files)

	for i, file := range files {
		if err := applyFile(ctx, db, file); err != nil {
			return i, err
		}
		log.Info("Migration %s applied", filepath.Base(file))
	}

	return len(files), nil
}

func applyFile(ctx context.Context, db DB, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("migrations: read %s: %w", file, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrations: begin %s: %w", file, err)
	}

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migrations: exec %s: %w", file, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrations: commit %s: %w", file, err)
	}
	return nil
}
