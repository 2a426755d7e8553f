package report

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunLogger appends structured JSONL run records to a log file. The preview
// document itself stays timestamp-free; wall-clock detail lives only here.
type RunLogger struct {
	file *os.File
	log  *zap.Logger
}

// NewRunLogger opens (or creates) the run log at path in append mode.
func NewRunLogger(path string) (*RunLogger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil && dir != "." {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.MessageKey = "event"
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(f), zapcore.InfoLevel)
	return &RunLogger{file: f, log: zap.New(core)}, nil
}

func (l *RunLogger) Close() {
	if l == nil || l.file == nil {
		return
	}
	_ = l.log.Sync()
	_ = l.file.Close()
}

func (l *RunLogger) Info(event string, fields ...zap.Field) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info(event, fields...)
}

func (l *RunLogger) Warn(event string, fields ...zap.Field) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warn(event, fields...)
}
