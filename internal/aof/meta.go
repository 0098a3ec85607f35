package aof

import (
	"encoding/binary"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	bolt "go.etcd.io/bbolt"
)

const (
	lockFileName = "appendonly.aof.lock"
	metaFileName = "meta.db"
	metaBucket   = "meta"

	metaKeyPolicy       = "policy"
	metaKeyReplayCount  = "replay_count"
	metaKeyCleanExit    = "clean_exit"
	metaKeyLastExitUnix = "last_exit_unix"
)

// meta is the small sidecar bookkeeping store that must survive
// restarts and can't be recovered by replaying the AOF alone: the
// sync policy last used, how many commands were replayed at last
// startup, and whether the previous process exited cleanly. Grounded
// on the teacher's index/bptree.go, which wraps the same bbolt library
// for crash-safe key/position storage; here it backs AOF bookkeeping
// instead of the (in-memory, §2.3) key index.
type meta struct {
	db *bolt.DB
}

func openMeta(dir string) (*meta, error) {
	db, err := bolt.Open(filepath.Join(dir, metaFileName), 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &meta{db: db}, nil
}

// wasCleanExit reports whether the previous process recorded a clean
// shutdown, distinguishing an ordinary restart from crash recovery.
func (m *meta) wasCleanExit() (bool, error) {
	var clean bool
	err := m.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metaBucket)).Get([]byte(metaKeyCleanExit))
		clean = len(b) == 1 && b[0] == 1
		return nil
	})
	return clean, err
}

// recordStartup persists the policy in effect and the count of
// commands replayed, and clears the clean-exit flag so a crash before
// the matching recordCleanExit call is visible on the next boot.
func (m *meta) recordStartup(policy SyncPolicy, replayCount int) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metaBucket))
		if err := b.Put([]byte(metaKeyPolicy), []byte(policy.String())); err != nil {
			return err
		}
		if err := b.Put([]byte(metaKeyReplayCount), itob(replayCount)); err != nil {
			return err
		}
		return b.Put([]byte(metaKeyCleanExit), []byte{0})
	})
}

// recordCleanExit marks the shutdown in progress as clean.
func (m *meta) recordCleanExit() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metaBucket))
		if err := b.Put([]byte(metaKeyCleanExit), []byte{1}); err != nil {
			return err
		}
		return b.Put([]byte(metaKeyLastExitUnix), itob(int(time.Now().Unix())))
	})
}

func (m *meta) close() error {
	return m.db.Close()
}

func itob(v int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

// acquireLock takes the advisory process-wide lock on dir, refusing to
// start a second server instance against the same AOF directory.
// Grounded directly on the teacher's db.go (fileLock *flock.Flock,
// fileLockName constant).
func acquireLock(dir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(dir, lockFileName))
	held, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, ErrDirectoryLocked
	}
	return lock, nil
}
