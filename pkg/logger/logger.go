package logger

import (
	"os"

	"github.com/labstack/gommon/log"
)

var std = newLogger()

func newLogger() *log.Logger {
	l := log.New("squadup")
	l.SetHeader(`${time_rfc3339} ${level} ${prefix}`)
	l.SetOutput(os.Stdout)
	if os.Getenv("ENVIRONMENT") == "development" {
		l.SetLevel(log.DEBUG)
	} else {
		l.SetLevel(log.INFO)
	}
	return l
}

// Echo returns the shared logger so echo's e.Logger writes through the same sink.
func Echo() *log.Logger {
	return std
}

// SetLevel accepts debug, info, warn or error. Unknown values are ignored.
func SetLevel(level string) {
	switch level {
	case "debug":
		std.SetLevel(log.DEBUG)
	case "info":
		std.SetLevel(log.INFO)
	case "warn":
		std.SetLevel(log.WARN)
	case "error":
		std.SetLevel(log.ERROR)
	}
}

func Info(format string, v ...interface{}) {
	std.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	std.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	std.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	std.Warnf(format, v...)
}
