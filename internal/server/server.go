// Package server wires the listener, the shared Store/Broker/AOF, and
// per-connection Sessions together, following the accept-loop and
// signal-driven graceful shutdown shape of the teacher's tcp/server.go.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hdt3213/godis/lib/sync/atomic"
	"github.com/hdt3213/godis/lib/sync/wait"

	"redikv/internal/aof"
	"redikv/internal/command"
	"redikv/internal/config"
	"redikv/internal/logging"
	"redikv/internal/pubsub"
	"redikv/internal/resp"
	"redikv/internal/session"
	"redikv/internal/store"
)

// Server owns the shared Store, Broker, and optional AOF, and accepts
// connections until told to stop.
type Server struct {
	db     *store.Store
	broker *pubsub.Broker
	log    *aof.AOF
	sink   logging.Sink

	closing atomic.Boolean
}

// shutdownDrainTimeout bounds how long graceful shutdown waits for
// in-flight sessions before forcing the final AOF sync and returning
// regardless, mirroring the teacher's EchoClient.Close 10s bound.
const shutdownDrainTimeout = 10 * time.Second

// New wires a Server's shared state. log may be nil to run without
// durability.
func New(db *store.Store, broker *pubsub.Broker, log *aof.AOF, sink logging.Sink) *Server {
	if sink == nil {
		sink = logging.Default
	}
	return &Server{db: db, broker: broker, log: log, sink: sink}
}

// Replay applies every mutating command recorded in the AOF (with the
// AOF itself disabled during replay, so replayed writes are not
// re-appended) before the server starts accepting connections.
func (s *Server) Replay() (int, error) {
	if s.log == nil {
		return 0, nil
	}
	return aof.Replay(s.log.Path(), s.sink, func(frame resp.Frame) error {
		cmd, err := command.Parse(frame)
		if err != nil {
			return err
		}
		command.Apply(cmd, s.db, s.broker)
		return nil
	})
}

// ListenAndServeWithSignal binds addr and serves until a termination
// signal arrives, then drains in-flight sessions and forces a final
// AOF fsync before returning. Grounded on the teacher's
// tcp.ListenAndServeWithSignal / tcp.ListenAndServe.
func (s *Server) ListenAndServeWithSignal(addr string) error {
	closeChan := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		close(closeChan)
	}()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.sink.Info("listening", "addr", addr)
	if s.log != nil {
		s.sink.Info("append-only enabled", "policy", s.log.Policy().String())
	} else {
		s.sink.Info("append-only disabled")
	}

	return s.serve(listener, closeChan)
}

func (s *Server) serve(listener net.Listener, closeChan <-chan struct{}) error {
	errCh := make(chan error, 1)
	go func() {
		select {
		case <-closeChan:
			s.sink.Info("shutdown signal received")
		case err := <-errCh:
			s.sink.Error("accept error, shutting down", "error", err)
		}
		s.closing.Set(true)
		_ = listener.Close()
	}()

	var connWait wait.Wait
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closing.Get() {
				break
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.sink.Warn("temporary accept error, retrying", "error", err)
				time.Sleep(5 * time.Millisecond)
				continue
			}
			errCh <- err
			break
		}
		if s.closing.Get() {
			_ = conn.Close()
			continue
		}

		s.sink.Info("connection accepted", "remote", conn.RemoteAddr().String())
		connWait.Add(1)
		go func() {
			defer connWait.Done()
			s.handle(conn)
		}()
	}
	connWait.WaitWithTimeout(shutdownDrainTimeout)

	if s.log != nil {
		if err := s.log.ForceSync(); err != nil {
			s.sink.Warn("final aof sync failed", "error", err)
		}
	}
	return nil
}

func (s *Server) handle(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer func() {
		_ = conn.Close()
		s.sink.Info("connection closed", "remote", remote)
	}()

	rc := resp.NewConn(conn)
	var log session.Log
	if s.log != nil {
		log = s.log
	}
	if err := session.Run(rc, s.db, s.broker, log, s.sink); err != nil {
		s.sink.Warn("session ended with error", "remote", remote, "error", err)
	}
}

// Close forces a final AOF sync and closes the underlying log, used by
// callers that own the Server outside ListenAndServeWithSignal's own
// signal handling (e.g. tests).
func (s *Server) Close() error {
	if s.log == nil {
		return nil
	}
	return s.log.Close()
}

// AddrFrom formats a config.Properties bind/port pair the way the
// teacher's main.go does with fmt.Sprintf.
func AddrFrom(props *config.Properties) string {
	return fmt.Sprintf("%s:%d", props.Bind, props.Port)
}
