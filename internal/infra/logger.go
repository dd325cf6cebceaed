package infra

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// dailyFileWriter appends to one log file per calendar day
// (<dir>/YYYY-MM-DD.log) and rolls over on the first write after midnight.
type dailyFileWriter struct {
	mu   sync.Mutex
	dir  string
	day  string
	file *os.File
}

func newDailyFileWriter(dir string) *dailyFileWriter {
	return &dailyFileWriter{dir: dir}
}

func (w *dailyFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := time.Now().Format("2006-01-02")
	if w.file == nil || day != w.day {
		if w.file != nil {
			w.file.Close()
		}
		f, err := os.OpenFile(
			filepath.Join(w.dir, day+".log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644,
		)
		if err != nil {
			return 0, fmt.Errorf("open log file: %w", err)
		}
		w.file = f
		w.day = day
	}
	return w.file.Write(p)
}

func (w *dailyFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// NewLogger builds the application logger: text records mirrored to stdout
// and to the daily log file. The log is the only audit trail, so components
// receive this logger injected rather than writing files themselves.
func NewLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(cfg.Logging.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}

	fw := newDailyFileWriter(cfg.Logging.Dir)
	handler := slog.NewTextHandler(
		io.MultiWriter(os.Stdout, fw),
		&slog.HandlerOptions{Level: level},
	)
	return slog.New(handler), fw, nil
}
