package log

import (
	"fmt"
	"io"
	golog "log"
	"os"
	"path/filepath"
	"sync"

	sentrypkg "github.com/kastheco/reviewgate/internal/sentry"
)

var (
	InfoLog    *golog.Logger
	WarningLog *golog.Logger
	ErrorLog   *golog.Logger
)

// FileName is the name of the log file inside the temp directory.
const FileName = "reviewgate.log"

var (
	mu      sync.Mutex
	logFile *os.File
)

func init() {
	// Loggers are usable before Initialize; they discard until then.
	setWriter(io.Discard, false)
}

// Path returns the location of the log file.
func Path() string {
	return filepath.Join(os.TempDir(), FileName)
}

// Initialize opens the log file and points the package loggers at it. stdout
// and stderr are reserved for the hook protocol, so nothing is written there.
// When forwardToSentry is set, errors become Sentry events and the rest
// become breadcrumbs.
func Initialize(forwardToSentry bool) {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Logging is best effort; the gate must still run.
		setWriter(io.Discard, false)
		return
	}
	logFile = f
	setWriter(f, forwardToSentry)
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error closing log file: %v\n", err)
	}
	logFile = nil
	setWriter(io.Discard, false)
}

func setWriter(w io.Writer, forwardToSentry bool) {
	info, warn, errw := w, w, w
	if forwardToSentry {
		info = sentrypkg.NewWriter(w, sentrypkg.LevelInfo)
		warn = sentrypkg.NewWriter(w, sentrypkg.LevelWarning)
		errw = sentrypkg.NewWriter(w, sentrypkg.LevelError)
	}
	InfoLog = golog.New(info, "INFO: ", golog.Ldate|golog.Ltime|golog.Lshortfile)
	WarningLog = golog.New(warn, "WARNING: ", golog.Ldate|golog.Ltime|golog.Lshortfile)
	ErrorLog = golog.New(errw, "ERROR: ", golog.Ldate|golog.Ltime|golog.Lshortfile)
}
