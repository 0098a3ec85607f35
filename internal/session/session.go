// Package session implements the per-connection driver: read frame,
// parse command, apply against the store, persist if mutating, write
// reply, repeat — exactly the loop spec.md's Session Loop describes.
package session

import (
	"errors"
	"io"

	"redikv/internal/aof"
	"redikv/internal/command"
	"redikv/internal/logging"
	"redikv/internal/pubsub"
	"redikv/internal/resp"
	"redikv/internal/store"
)

// Log is the subset of *aof.AOF the session needs; a nil Log means the
// server is running without durability.
type Log interface {
	Append(resp.Frame) error
	Policy() aof.SyncPolicy
}

// Run drives one accepted connection to completion. It returns nil on
// a clean client-initiated close and when the peer disconnects
// mid-frame (ErrConnectionReset), and a non-nil error for any other
// I/O or protocol failure that tore the connection down.
func Run(conn *resp.Conn, db *store.Store, broker *pubsub.Broker, log Log, sink logging.Sink) error {
	if sink == nil {
		sink = logging.Default
	}

	for {
		frame, ok, err := conn.ReadFrame()
		if err != nil {
			if errors.Is(err, resp.ErrConnectionReset) || errors.Is(err, io.EOF) {
				return nil
			}
			if resp.IsProtocolError(err) {
				_ = conn.WriteFrame(resp.Err(protocolErrorReply(err)))
				return err
			}
			return err
		}
		if !ok {
			return nil
		}

		cmd, parseErr := command.Parse(frame)
		if parseErr != nil {
			if err := conn.WriteFrame(resp.Err("ERR " + parseErr.Error())); err != nil {
				return err
			}
			continue
		}

		reply, mutated := command.Apply(cmd, db, broker)

		if mutated && log != nil {
			if err := log.Append(frame); err != nil {
				sink.Error("aof append failed", "command", cmd.Name, "error", err)
				if log.Policy() == aof.Always {
					_ = conn.WriteFrame(resp.Err("ERR persistence failure"))
					return err
				}
			}
		}

		if err := conn.WriteFrame(reply); err != nil {
			return err
		}
	}
}

func protocolErrorReply(err error) string {
	return "ERR " + err.Error()
}
