package importer

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Entry is one diagnostics message.
type Entry struct {
	Level   zerolog.Level
	Unit    string // lump or surface the message is about
	Message string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s: %s", e.Level, e.Unit, e.Message)
}

// Diagnostics is an append-only log shared by the tasks of one import.
// Every entry is also written to the logger.
type Diagnostics struct {
	mu      sync.Mutex
	entries []Entry
	logger  zerolog.Logger
}

func NewDiagnostics(logger zerolog.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

func (d *Diagnostics) add(level zerolog.Level, unit, format string, args ...any) {
	e := Entry{Level: level, Unit: unit, Message: fmt.Sprintf(format, args...)}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries = append(d.entries, e)

	// under the lock, the logger's writer need not be safe for concurrent use
	d.logger.WithLevel(level).Str("unit", unit).Msg(e.Message)
}

func (d *Diagnostics) Infof(unit, format string, args ...any) {
	d.add(zerolog.InfoLevel, unit, format, args...)
}

func (d *Diagnostics) Warnf(unit, format string, args ...any) {
	d.add(zerolog.WarnLevel, unit, format, args...)
}

func (d *Diagnostics) Errorf(unit, format string, args ...any) {
	d.add(zerolog.ErrorLevel, unit, format, args...)
}

// Entries returns a copy of the log.
func (d *Diagnostics) Entries() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Entry(nil), d.entries...)
}

// Count returns the number of entries at or above level.
func (d *Diagnostics) Count(level zerolog.Level) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0

	for _, e := range d.entries {
		if e.Level >= level {
			n++
		}
	}

	return n
}
