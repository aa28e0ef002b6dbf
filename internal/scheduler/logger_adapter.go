package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ZapLoggerAdapter adapts zap.Logger to cron's Logger interface
type ZapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter creates a new zap logger adapter for cron
func NewZapLoggerAdapter(logger *zap.Logger) cron.Logger {
	return &ZapLoggerAdapter{logger: logger}
}

// Info logs routine scheduler activity (wake ups, job starts) at debug level
func (z *ZapLoggerAdapter) Info(msg string, keyvals ...interface{}) {
	fields := convertKeyvalsToFields(keyvals...)
	z.logger.Debug(msg, fields...)
}

// Error logs an error message
func (z *ZapLoggerAdapter) Error(err error, msg string, keyvals ...interface{}) {
	fields := convertKeyvalsToFields(keyvals...)
	z.logger.Error(msg, append(fields, zap.Error(err))...)
}

// convertKeyvalsToFields converts key-value pairs to zap fields
// cron's log interface uses keyvals in format: key1, val1, key2, val2, ...
func convertKeyvalsToFields(keyvals ...interface{}) []zap.Field {
	if len(keyvals)%2 != 0 {
		// Odd number of keyvals, ignore last one
		keyvals = keyvals[:len(keyvals)-1]
	}

	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}
	return fields
}
