package store

import (
	"sync"
	"time"

	"github.com/google/btree"
	"golang.org/x/exp/slices"
)

// keyItem is the btree.Item backing the store's ordered key index,
// mirrored from the teacher's index/btree.go (there it indexed byte
// offsets of on-disk records; here it just orders live keys so DBSIZE
// walks them in ascending order instead of over Go's randomized map
// order). KEYS enumerates through the prefix index and sorts its result.
type keyItem string

func (a keyItem) Less(than btree.Item) bool {
	return a < than.(keyItem)
}

// Store is the single shared, coarsely-guarded map of keys to Entries.
// Every public method takes the guard for its whole duration; critical
// sections never suspend (no I/O, no channel sends while held).
type Store struct {
	mu    sync.Mutex
	data  map[string]*Entry
	keys  *btree.BTree // ordered mirror of the live key set
	prefx *prefixIndex // ART-backed prefix index, see pattern.go
	now   func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		data:  make(map[string]*Entry),
		keys:  btree.New(32),
		prefx: newPrefixIndex(),
		now:   time.Now,
	}
}

// getLive returns the entry for key if present and not expired,
// deleting it in place if its deadline has elapsed. Callers must hold
// s.mu.
func (s *Store) getLive(key string) (*Entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		s.removeLocked(key)
		return nil, false
	}
	return e, true
}

// setLocked installs entry under key, updating both indexes. Callers
// must hold s.mu.
func (s *Store) setLocked(key string, e *Entry) {
	if _, existed := s.data[key]; !existed {
		s.keys.ReplaceOrInsert(keyItem(key))
		s.prefx.insert(key)
	}
	s.data[key] = e
}

// removeLocked deletes key from the store and both indexes. Callers
// must hold s.mu. Reports whether the key had existed.
func (s *Store) removeLocked(key string) bool {
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	s.keys.Delete(keyItem(key))
	s.prefx.remove(key)
	return true
}

// deleteIfEmptyLocked removes key when its collection Value has become
// empty, keeping the "a Value is never empty after a mutating command"
// invariant. Callers must hold s.mu.
func (s *Store) deleteIfEmptyLocked(key string, v Value) {
	empty := false
	switch v.Kind {
	case KindList:
		empty = len(v.List) == 0
	case KindSet:
		empty = len(v.Set) == 0
	case KindHash:
		empty = len(v.Hash) == 0
	}
	if empty {
		s.removeLocked(key)
	}
}

// Del deletes each of keys, returning the count actually removed.
func (s *Store) Del(keys []string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := s.getLive(k); ok && s.removeLocked(k) {
			n++
		}
	}
	return n
}

// Exists reports 1 if key is present and unexpired, 0 otherwise.
func (s *Store) Exists(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.getLive(key); ok {
		return 1
	}
	return 0
}

// Type returns the fixed type name for key, or "none" if absent.
func (s *Store) Type(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return "none"
	}
	return e.Value.Kind.String()
}

// Keys returns every live key matching the glob pattern.
func (s *Store) Keys(pattern string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []string
	s.prefx.candidates(pattern, func(key string) {
		e, ok := s.data[key]
		if !ok || e.expired(now) {
			return
		}
		if match(pattern, key) {
			out = append(out, key)
		}
	})
	slices.Sort(out)
	return out
}

// DBSize returns the count of live keys. It walks the whole ordered
// index once, skips entries whose deadline has elapsed, and then
// removes those expired keys from the store.
func (s *Store) DBSize() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	var expiredKeys []string
	s.keys.Ascend(func(it btree.Item) bool {
		k := string(it.(keyItem))
		if e := s.data[k]; e != nil {
			if e.expired(now) {
				expiredKeys = append(expiredKeys, k)
				return true
			}
			n++
		}
		return true
	})
	for _, k := range expiredKeys {
		s.removeLocked(k)
	}
	return n
}

// FlushDB clears every entry from the store.
func (s *Store) FlushDB() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]*Entry)
	s.keys = btree.New(32)
	s.prefx = newPrefixIndex()
}
