// Package logging provides the small structured-event sink the rest of
// the server logs through, so no internal package reaches for
// fmt.Println or the bare log package directly (cmd/redikv uses
// log.Fatal only for unrecoverable startup failures).
package logging

import (
	"fmt"
	"strings"

	"github.com/hdt3213/godis/lib/logger"
)

// Sink is the pluggable structured-event interface spec.md §6 asks for:
// info/warn/error levels with key/value fields.
type Sink interface {
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// godisSink formats key/value pairs into the message text and forwards
// to the teacher's logger package, which already handles level
// filtering, timestamps, and file output.
type godisSink struct{}

// Default is the process-wide sink used unless a test substitutes one.
var Default Sink = godisSink{}

func (godisSink) Info(msg string, kv ...any)  { logger.Info(format(msg, kv)) }
func (godisSink) Warn(msg string, kv ...any)  { logger.Warn(format(msg, kv)) }
func (godisSink) Error(msg string, kv ...any) { logger.Error(format(msg, kv)) }

func format(msg string, kv []any) string {
	if len(kv) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		b.WriteString(" ")
		b.WriteString(toString(kv[i]))
		b.WriteString("=")
		b.WriteString(toString(kv[i+1]))
	}
	return b.String()
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
