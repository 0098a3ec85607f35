package store

import "time"

// Set installs key with val as a string Value. A zero ttl means no
// expiration; a positive ttl sets the deadline ttl from now.
func (s *Store) Set(key string, val []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &Entry{Value: Value{Kind: KindString, Str: val}}
	if ttl > 0 {
		e.Deadline = s.now().Add(ttl)
	}
	s.setLocked(key, e)
}

// Get returns the string stored under key. ok is false when the key is
// absent or expired; err is ErrWrongType when key holds a non-string
// Value.
func (s *Store) Get(key string) (val []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.getLive(key)
	if !found {
		return nil, false, nil
	}
	if e.Value.Kind != KindString {
		return nil, false, ErrWrongType
	}
	return e.Value.Str, true, nil
}
