package thurgood

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("thurgood")

var stderrFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.6s} ▶ %{message}`,
)

// SetupLogging configures the package logger. The level defaults to
// defaultLogLevel and can be overridden with THURGOOD_LOG_LEVEL. The
// codec only logs at DEBUG on the happy path.
func SetupLogging(defaultLogLevel logging.Level) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(stderrFormat)
	leveled := logging.AddModuleLevel(backend)
	switch os.Getenv("THURGOOD_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "thurgood")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "thurgood")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "thurgood")
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, "thurgood")
	case "INFO":
		leveled.SetLevel(logging.INFO, "thurgood")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "thurgood")
	default:
		leveled.SetLevel(defaultLogLevel, "thurgood")
	}
	logging.SetBackend(leveled)
	return log
}
