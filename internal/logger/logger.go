package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Log levels accepted by Get and Options.Level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Options configures New.
type Options struct {
	Level string
	// JSON selects one JSON object per line instead of tab separated text.
	JSON bool
	// Output defaults to stdout.
	Output io.Writer
}

var (
	processLogger *Logger
	processOnce   sync.Once
)

// Get returns the process wide logger. Only the first call's level counts.
// Debug runs log human readable lines, everything else logs JSON.
func Get(level string) *Logger {
	processOnce.Do(func() {
		processLogger = New(Options{Level: level, JSON: parseLevel(level) != debugLevel})
	})
	return processLogger
}

// New builds a standalone logger named "recipes".
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	core := newCore(parseLevel(opts.Level), opts.JSON, out)
	return &Logger{SugaredLogger: zap.New(core, zap.AddCaller()).Named("recipes").Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
