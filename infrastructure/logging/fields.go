package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for selection pipeline logging.

// SelectionID adds a selection ID field.
func SelectionID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("selection_id", id)
	}
}

// Tool adds a tool name field.
func Tool(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// Capability adds a capability field.
func Capability(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("capability", name)
	}
}

// Pattern adds a fully qualified pattern field (tool/capability/pattern).
func Pattern(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("pattern", id)
	}
}

// Mode adds a preference mode field.
func Mode(mode string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("mode", mode)
	}
}

// Stage adds a pipeline stage field.
func Stage(stage string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("stage", stage)
	}
}

// Score adds a score field.
func Score(score float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("score", score)
	}
}

// Gap adds a score gap field.
func Gap(gap float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64("gap", gap)
	}
}

// Candidates adds a candidate count field.
func Candidates(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("candidates", n)
	}
}

// Provider adds an oracle provider field.
func Provider(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("provider", name)
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Path adds a file path field.
func Path(path string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", path)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Str adds an arbitrary string field.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// LogEvent allows applying Fields to a bolt.Event with chaining.
type LogEvent struct {
	event *bolt.Event
}

// NewEvent wraps a bolt.Event for field application.
func NewEvent(e *bolt.Event) *LogEvent {
	return &LogEvent{event: e}
}

// Add applies a field to the event and returns the wrapper for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg sends the log event with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

// Send sends the log event without a message.
func (l *LogEvent) Send() {
	l.event.Send()
}

// Convenience constructors for the default logger.

// Debug returns a LogEvent wrapper for debug level logging.
func Debug() *LogEvent {
	return &LogEvent{event: Get().Debug()}
}

// Info returns a LogEvent wrapper for info level logging.
func Info() *LogEvent {
	return &LogEvent{event: Get().Info()}
}

// Warn returns a LogEvent wrapper for warn level logging.
func Warn() *LogEvent {
	return &LogEvent{event: Get().Warn()}
}

// Error returns a LogEvent wrapper for error level logging.
func Error() *LogEvent {
	return &LogEvent{event: Get().Error()}
}
