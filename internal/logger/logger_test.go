package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func bufferedLogger(buf *bytes.Buffer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(EncoderConfig()),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

// Feature: catalog-api, Property 11: Logs are structured
func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all log entries are JSON with level, timestamp and message", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := bufferedLogger(&buf)
			defer logger.Sync()

			switch level {
			case "debug":
				logger.Debug(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			default:
				logger.Info(message)
			}

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}

			for _, key := range []string{"level", "timestamp", "message"} {
				if _, ok := logEntry[key]; !ok {
					return false
				}
			}
			return logEntry["message"] == message && logEntry["level"] == level
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-api, Property 12: Error logs carry their fields
func TestProperty_ErrorLogsIncludeContext(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("error logs include the request field", prop.ForAll(
		func(message string, request string) bool {
			var buf bytes.Buffer
			logger := bufferedLogger(&buf)

			logger.Error(message, zap.String("request", request))

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				return false
			}
			_, hasStack := logEntry["stacktrace"]
			return logEntry["request"] == request && hasStack
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := New(env, "")
		if err != nil {
			t.Fatalf("Failed to create %s logger: %v", env, err)
		}
		logger.Sync()
	}

	logger, err := New("production", "warn")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}

	if _, err := New("production", "loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
