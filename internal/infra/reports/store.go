package reports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Store каталог с CSV-отчётами
type Store struct {
	dir       string
	delimiter rune
}

// NewStore создаёт хранилище отчётов в каталоге dir
func NewStore(dir string, delimiter rune) *Store {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Store{dir: dir, delimiter: delimiter}
}

// Dir каталог отчётов
func (s *Store) Dir() string {
	return s.dir
}

// Create начинает запись отчёта filename
// Строки пишутся во временный файл, который становится видимым только после Commit
func (s *Store) Create(filename string) (*Writer, error) {
	if !validFilename(filename) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create dir %s: %v", ErrWrite, s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filename+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", ErrWrite, err)
	}

	w := &Writer{
		file:  tmp,
		csv:   csv.NewWriter(tmp),
		final: filepath.Join(s.dir, filename),
	}
	w.csv.Comma = s.delimiter

	if err := w.csv.Write(domain.ReportHeader); err != nil {
		_ = w.Abort()
		return nil, fmt.Errorf("%w: header: %v", ErrWrite, err)
	}

	return w, nil
}

// Open открывает готовый отчёт для отдачи клиенту
// Имена с разделителями пути, ".." и скрытые (временные) файлы считаются отсутствующими
func (s *Store) Open(filename string) (*os.File, fs.FileInfo, error) {
	if !validFilename(filename) {
		return nil, nil, ErrFileNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("reports: open %s: %w", filename, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("reports: stat %s: %w", filename, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, ErrFileNotFound
	}

	return f, info, nil
}

func validFilename(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// Writer построчная запись одного CSV-отчёта
type Writer struct {
	file  *os.File
	csv   *csv.Writer
	final string
	rows  int
	done  bool
}

// Write дописывает порцию строк
func (w *Writer) Write(rows []domain.ReportRow) error {
	for _, row := range rows {
		if err := w.csv.Write(row.Values()); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrWrite, w.rows+1, err)
		}
		w.rows++
	}

	// сбрасываем буфер на каждой порции, чтобы не держать отчёт в памяти
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("%w: flush: %v", ErrWrite, err)
	}
	return nil
}

// Rows количество записанных строк данных (без заголовка)
func (w *Writer) Rows() int {
	return w.rows
}

// Path итоговый путь файла
func (w *Writer) Path() string {
	return w.final
}

// Commit завершает запись и атомарно публикует файл под итоговым именем
// Существующий отчёт с тем же именем перезаписывается
func (w *Writer) Commit() error {
	if w.done {
		return nil
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.Abort()
		return fmt.Errorf("%w: flush: %v", ErrWrite, err)
	}
	if err := w.file.Sync(); err != nil {
		_ = w.Abort()
		return fmt.Errorf("%w: sync: %v", ErrWrite, err)
	}
	if err := w.file.Close(); err != nil {
		_ = os.Remove(w.file.Name())
		w.done = true
		return fmt.Errorf("%w: close: %v", ErrWrite, err)
	}

	w.done = true
	if err := os.Rename(w.file.Name(), w.final); err != nil {
		_ = os.Remove(w.file.Name())
		return fmt.Errorf("%w: rename: %v", ErrWrite, err)
	}
	return nil
}

// Abort удаляет незавершённый отчёт; после Commit ничего не делает
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	_ = w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove temp file: %v", ErrWrite, err)
	}
	return nil
}
