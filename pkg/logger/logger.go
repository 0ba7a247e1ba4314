package logger

import (
	"log/slog"
	"os"
)

var base *slog.Logger

// Init configures the process-wide logger. Development gets human-readable
// text at debug level, everything else structured JSON at info.
func Init(environment string) {
	var handler slog.Handler
	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	base = slog.New(handler)
	slog.SetDefault(base)
}

func logger() *slog.Logger {
	if base == nil {
		Init("development")
	}
	return base
}

func Info(msg string, args ...any) {
	logger().Info(msg, fields(args)...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, fields(args)...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, fields(args)...)
}

func Fatal(msg string, args ...any) {
	logger().Error(msg, fields(args)...)
	os.Exit(1)
}

// fields tolerates bare errors and values alongside regular key-value pairs,
// so call sites can pass an error without naming it.
func fields(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			out = append(out, slog.Any("error", v))
		case slog.Attr:
			out = append(out, v)
		case string:
			if i+1 < len(args) {
				out = append(out, v, args[i+1])
				i++
			} else {
				out = append(out, slog.String("detail", v))
			}
		default:
			out = append(out, slog.Any("value", v))
		}
	}
	return out
}
