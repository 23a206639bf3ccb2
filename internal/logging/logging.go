// Package logging holds the process-wide structured logger and the record
// shapes the engine emits: per-session loggers and relation verdicts.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	envLevel = "MTKERAS_LOG_LEVEL"
	envJSON  = "MTKERAS_LOG_JSON"
)

type Options struct {
	Level string
	JSON  bool
	// Output defaults to stderr.
	Output io.Writer
}

var current atomic.Pointer[slog.Logger]

func init() { Configure(Options{}) }

func Configure(opts Options) {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler = slog.NewTextHandler(w, ho)
	if opts.JSON {
		h = slog.NewJSONHandler(w, ho)
	}
	current.Store(slog.New(h))
}

// parseLevel accepts slog level names with offsets ("debug", "warn+2") and
// "warning". Anything else is info.
func parseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func L() *slog.Logger { return current.Load() }

// Session returns a logger whose records carry the data domain of one test
// session under the "session" group.
func Session(domain fmt.Stringer) *slog.Logger {
	return L().With(slog.Group("session", slog.String("domain", domain.String())))
}

// ViolationLine is the human-readable verdict of one relation evaluation.
func ViolationLine(n int, relation string) string {
	return fmt.Sprintf("There are %d violations of MROP %s.", n, relation)
}

// Violations logs a relation verdict at info level.
func Violations(relation string, cases, n int) {
	L().Info(ViolationLine(n, relation),
		slog.Group("relation", slog.String("name", relation), slog.Int("cases", cases), slog.Int("violations", n)))
}

// InitFromEnv configures the logger from MTKERAS_LOG_LEVEL and MTKERAS_LOG_JSON.
func InitFromEnv() {
	json, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(envJSON)))
	Configure(Options{Level: os.Getenv(envLevel), JSON: json})
}
