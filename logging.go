package steep

import (
	"io"
	stdlog "log"
	"os"

	"charm.land/log/v2"
)

// logger receives the runtime's own diagnostics: queue saturation warnings,
// abandoned-task reports and recovered command panics. It is silent by
// default; the terminal belongs to the renderer and must never be written
// to behind its back.
var logger = log.New(io.Discard)

// SetLogger routes the runtime's internal diagnostics to l.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// LogToFile opens path for appending and points both the runtime logger and
// the standard library's default logger at it. With the terminal in raw
// mode, printing to stdout corrupts the display; a log file is the usual way
// to debug a running program. The caller closes the returned file.
func LogToFile(path, prefix string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(f)
	logger.SetPrefix(prefix)
	stdlog.SetOutput(f)
	stdlog.SetPrefix(prefix + " ")
	return f, nil
}
