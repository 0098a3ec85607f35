// Package command implements the verb dispatch table: parsing a Frame
// into a Command and applying it against a Store and a Broker.
package command

import (
	"redikv/internal/pubsub"
	"redikv/internal/resp"
	"redikv/internal/store"
)

// Command is a parsed, ready-to-apply verb invocation. Name is always
// upper-cased; Args holds every argument after the verb, unparsed.
type Command struct {
	Name string
	Args [][]byte
}

// ExecFunc is the shape every verb's handler takes: store and broker
// handles plus the raw argument list (not including the verb itself),
// returning the reply Frame and whether the Store was mutated.
type ExecFunc func(db *store.Store, b *pubsub.Broker, args [][]byte) (resp.Frame, bool)

type spec struct {
	exec ExecFunc
	// arity >= 0 means exactly arity args after the verb; arity < 0
	// means at least -arity args, mirroring the teacher's convention.
	// arityAny skips the check entirely, for verbs with their own
	// bespoke argument-count rule (PING's optional single argument).
	arity int
	write bool
}

const arityAny = 1 << 30

var table = map[string]spec{}

func register(name string, arity int, write bool, exec ExecFunc) {
	table[name] = spec{exec: exec, arity: arity, write: write}
}

// SyntaxError is returned by Parse when a Frame is not a well-formed
// command invocation (not an array, or an element is not a bulk
// string).
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return e.Msg }

// Parse turns a Frame (expected to be a non-null Array of non-null
// Bulks) into a Command. The verb is upper-folded per the spec's
// ASCII-fold rule.
func Parse(f resp.Frame) (Command, error) {
	if f.Kind != resp.KindArray || f.IsNull() || len(f.Array) == 0 {
		return Command{}, &SyntaxError{Msg: "expected array of bulk strings"}
	}
	args := make([][]byte, 0, len(f.Array))
	for _, item := range f.Array {
		if item.Kind != resp.KindBulk || item.IsNull() {
			return Command{}, &SyntaxError{Msg: "expected bulk string argument"}
		}
		args = append(args, item.Bulk)
	}
	verb := append([]byte(nil), args[0]...)
	for i, c := range verb {
		if c >= 'a' && c <= 'z' {
			verb[i] = c - ('a' - 'A')
		}
	}
	return Command{Name: string(verb), Args: args[1:]}, nil
}

// IsWrite reports whether name is one of the commands that can mutate
// the Store and must therefore be appended to the AOL.
func IsWrite(name string) bool {
	s, ok := table[name]
	return ok && s.write
}

// Apply dispatches cmd to its handler, validating arity first. Unknown
// verbs and arity mismatches never touch the Store and report
// mutated=false.
func Apply(cmd Command, db *store.Store, b *pubsub.Broker) (resp.Frame, bool) {
	s, ok := table[cmd.Name]
	if !ok {
		return resp.Errf("ERR", "unknown command '%s'", cmd.Name), false
	}
	if !arityOK(s.arity, len(cmd.Args)) {
		return errSyntax("wrong number of arguments"), false
	}
	return s.exec(db, b, cmd.Args)
}

func arityOK(arity, got int) bool {
	if arity == arityAny {
		return true
	}
	if arity >= 0 {
		return got == arity
	}
	return got >= -arity
}

func errSyntax(msg string) resp.Frame {
	return resp.Errf("ERR", "%s", msg)
}
