package store

// getOrCreateList returns the live list Value at key, creating an
// empty one if key is absent. Returns ErrWrongType if key holds a
// different kind. Callers must hold s.mu.
func (s *Store) getOrCreateList(key string) (*Entry, error) {
	e, ok := s.getLive(key)
	if !ok {
		e = &Entry{Value: Value{Kind: KindList}}
		s.setLocked(key, e)
		return e, nil
	}
	if e.Value.Kind != KindList {
		return nil, ErrWrongType
	}
	return e, nil
}

// LPush prepends vals (in argument order, so the last arg ends up
// frontmost) to the list at key, creating it if absent. Returns the
// resulting length.
func (s *Store) LPush(key string, vals ...[]byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.getOrCreateList(key)
	if err != nil {
		return 0, err
	}
	for _, v := range vals {
		e.Value.List = append([][]byte{v}, e.Value.List...)
	}
	return int64(len(e.Value.List)), nil
}

// RPush appends vals to the list at key, creating it if absent.
// Returns the resulting length.
func (s *Store) RPush(key string, vals ...[]byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.getOrCreateList(key)
	if err != nil {
		return 0, err
	}
	e.Value.List = append(e.Value.List, vals...)
	return int64(len(e.Value.List)), nil
}

// LPop removes and returns the front element of the list at key. ok is
// false when the key is absent or the list is empty.
func (s *Store) LPop(key string) (val []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.getLive(key)
	if !found {
		return nil, false, nil
	}
	if e.Value.Kind != KindList {
		return nil, false, ErrWrongType
	}
	if len(e.Value.List) == 0 {
		return nil, false, nil
	}
	val = e.Value.List[0]
	e.Value.List = e.Value.List[1:]
	s.deleteIfEmptyLocked(key, e.Value)
	return val, true, nil
}

// RPop removes and returns the back element of the list at key. ok is
// false when the key is absent or the list is empty.
func (s *Store) RPop(key string) (val []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.getLive(key)
	if !found {
		return nil, false, nil
	}
	if e.Value.Kind != KindList {
		return nil, false, ErrWrongType
	}
	n := len(e.Value.List)
	if n == 0 {
		return nil, false, nil
	}
	val = e.Value.List[n-1]
	e.Value.List = e.Value.List[:n-1]
	s.deleteIfEmptyLocked(key, e.Value)
	return val, true, nil
}

// LLen returns the length of the list at key, or 0 if absent.
func (s *Store) LLen(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return 0, nil
	}
	if e.Value.Kind != KindList {
		return 0, ErrWrongType
	}
	return int64(len(e.Value.List)), nil
}

// LRange returns the inclusive slice [start, stop] of the list at key,
// supporting negative indices counted from the end (-1 is the last
// element). Out-of-range bounds are clamped rather than erroring.
func (s *Store) LRange(key string, start, stop int64) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return nil, nil
	}
	if e.Value.Kind != KindList {
		return nil, ErrWrongType
	}

	n := int64(len(e.Value.List))
	start = normalizeIndex(start, n)
	stop = normalizeIndex(stop, n)
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return nil, nil
	}

	out := make([][]byte, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		out = append(out, e.Value.List[i])
	}
	return out, nil
}

// normalizeIndex adds n to a negative list index, so -1 is the last
// element, as Redis-style range commands define. The result can still
// lie outside [0, n); LRange clamps it.
func normalizeIndex(i, n int64) int64 {
	if i < 0 {
		i += n
	}
	return i
}
