package engine

import "go.uber.org/zap/zapcore"

// LogLevel maps an engine log level name to a zap level. Fatal engine
// messages are logged at error level. Unknown names map to debug.
func LogLevel(level string) zapcore.Level {
	switch level {
	case "fatal", "error":
		return zapcore.ErrorLevel
	case "warn":
		return zapcore.WarnLevel
	case "info", "status":
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
