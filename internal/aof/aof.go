// Package aof implements the append-only durability log: a
// single-writer record stream of mutating command Frames, three sync
// policies, and a startup replay driver.
package aof

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/hdt3213/godis/lib/sync/atomic"
	"github.com/shirou/gopsutil/v3/disk"

	"redikv/internal/logging"
	"redikv/internal/resp"
)

const syncInterval = time.Second

// AOF is the single writer of the durability log. Appends are
// serialised by mu; the background syncer (EverySecond policy) never
// touches the Store and holds no lock on it.
type AOF struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	policy SyncPolicy

	lock *flock.Flock
	meta *meta
	log  logging.Sink

	stopTicker chan struct{}
	closing    atomic.Boolean
}

// Open opens (creating if absent) the AOF file dir/filename under the
// given sync policy. It takes the directory's advisory lock first,
// refusing to run two instances against the same AOF directory.
func Open(dir, filename string, policy SyncPolicy, sink logging.Sink) (*AOF, error) {
	if sink == nil {
		sink = logging.Default
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	lock, err := acquireLock(dir)
	if err != nil {
		return nil, err
	}

	m, err := openMeta(dir)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	logDiskUsage(dir, sink)

	path := filepath.Join(dir, filename)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		m.close()
		lock.Unlock()
		return nil, err
	}

	a := &AOF{
		file:       file,
		writer:     bufio.NewWriter(file),
		policy:     policy,
		lock:       lock,
		meta:       m,
		log:        sink,
		stopTicker: make(chan struct{}),
	}

	if policy == EverySecond {
		go a.syncLoop()
	}

	sink.Info("aof opened", "path", path, "policy", policy.String())
	return a, nil
}

// Policy returns the sync policy this AOF was opened with.
func (a *AOF) Policy() SyncPolicy {
	return a.policy
}

// Path returns the AOF's on-disk file path, for the replay driver.
func (a *AOF) Path() string {
	return a.file.Name()
}

// SetReplayCount records how many commands the startup replay applied,
// for the meta sidecar's bookkeeping.
func (a *AOF) SetReplayCount(n int) error {
	return a.meta.recordStartup(a.policy, n)
}

// WasCleanExit reports whether the previous process shut down cleanly,
// per the meta sidecar's clean-exit flag.
func (a *AOF) WasCleanExit() (bool, error) {
	return a.meta.wasCleanExit()
}

// Append hands the original command Frame to the log. Under Always,
// this blocks until fsync completes; under EverySecond/No, it returns
// once the bytes have been handed to the OS.
func (a *AOF) Append(frame resp.Frame) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.writer.Write(resp.Encode(frame)); err != nil {
		return err
	}
	if err := a.writer.Flush(); err != nil {
		return err
	}
	if a.policy == Always {
		return a.file.Sync()
	}
	return nil
}

// ForceSync flushes and fsyncs regardless of policy, used by graceful
// shutdown's "always a full fsync" guarantee.
func (a *AOF) ForceSync() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.writer.Flush(); err != nil {
		return err
	}
	return a.file.Sync()
}

func (a *AOF) syncLoop() {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := a.ForceSync(); err != nil {
				a.log.Warn("aof background sync failed", "error", err)
			}
		case <-a.stopTicker:
			return
		}
	}
}

// Close stops the background syncer, forces a final fsync, marks the
// meta sidecar's clean-exit flag, and releases the directory lock.
func (a *AOF) Close() error {
	if !a.closing.Get() {
		a.closing.Set(true)
		close(a.stopTicker)
	}

	syncErr := a.ForceSync()
	if err := a.meta.recordCleanExit(); err != nil {
		a.log.Warn("aof failed to record clean exit", "error", err)
	}
	if err := a.meta.close(); err != nil {
		a.log.Warn("aof failed to close meta db", "error", err)
	}
	if err := a.lock.Unlock(); err != nil {
		a.log.Warn("aof failed to release directory lock", "error", err)
	}
	if err := a.file.Close(); err != nil {
		return err
	}
	return syncErr
}

// logDiskUsage logs a Warn event when free space on the AOF volume is
// low, and an Info event otherwise. Grounded on the teacher's
// utils/file.go (AvailableDiskSize).
func logDiskUsage(dir string, sink logging.Sink) {
	usage, err := disk.Usage(dir)
	if err != nil {
		sink.Warn("could not read disk usage", "dir", dir, "error", err)
		return
	}
	if usage.UsedPercent > 90 {
		sink.Warn("low disk space on AOF volume", "dir", dir, "used_percent", usage.UsedPercent)
		return
	}
	sink.Info("disk usage on AOF volume", "dir", dir, "used_percent", usage.UsedPercent)
}
