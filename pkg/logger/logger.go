// Package logger holds the portal's process-wide zerolog logger.
//
// main calls Init once; everything else asks for a tagged child with
// Component, or receives a zerolog.Logger through its constructor.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level accepts any zerolog level name ("warning" too). Unknown or empty
	// values mean info.
	Level string
	// Pretty switches to the coloured console writer. Production logs are JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is stamped on every entry.
	Service string
}

var (
	mu   sync.Mutex
	once sync.Once
	root *zerolog.Logger
)

// Init builds the process logger from opts. Only the first call counts;
// later calls return the logger built the first time.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		w := opts.Output
		if w == nil {
			w = os.Stdout
		}
		if opts.Pretty {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		}

		level := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(level)

		b := zerolog.New(w).Level(level).With().Timestamp().Caller()
		if opts.Service != "" {
			b = b.Str("service", opts.Service)
		}
		l := b.Logger()

		mu.Lock()
		root = &l
		mu.Unlock()
	})
	return Get()
}

// Get returns the process logger and panics when Init never ran.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		panic("logger: Get() called before Init()")
	}
	return *root
}

// Component tags the process logger with the subsystem writing to it.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the process logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	root = nil
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zerolog.WarnLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
