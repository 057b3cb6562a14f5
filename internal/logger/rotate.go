package logger

import (
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewRotatingWriter returns a size-rotated log file under cfg.Dir
func NewRotatingWriter(cfg Config) *lumberjack.Logger {
	name := cfg.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, name+LogFileSuffix),
		MaxSize:    LogFileMaxSizeMB,
		MaxBackups: LogFileMaxBackups,
		MaxAge:     LogFileMaxAgeDays,
		Compress:   true,
	}
}
