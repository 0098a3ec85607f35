package store

// HSet sets field to val in the hash at key, creating the hash if
// absent. Returns 1 if field was newly created, 0 if it already
// existed and was overwritten.
func (s *Store) HSet(key, field string, val []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		e = &Entry{Value: Value{Kind: KindHash, Hash: make(map[string][]byte)}}
		s.setLocked(key, e)
	} else if e.Value.Kind != KindHash {
		return 0, ErrWrongType
	}

	_, existed := e.Value.Hash[field]
	e.Value.Hash[field] = val
	if existed {
		return 0, nil
	}
	return 1, nil
}

// HGet returns the value of field in the hash at key. ok is false when
// the key or field is absent.
func (s *Store) HGet(key, field string) (val []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.getLive(key)
	if !found {
		return nil, false, nil
	}
	if e.Value.Kind != KindHash {
		return nil, false, ErrWrongType
	}
	val, ok = e.Value.Hash[field]
	return val, ok, nil
}

// HDel deletes fields from the hash at key. Returns the count actually
// removed.
func (s *Store) HDel(key string, fields ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return 0, nil
	}
	if e.Value.Kind != KindHash {
		return 0, ErrWrongType
	}

	var removed int64
	for _, f := range fields {
		if _, exists := e.Value.Hash[f]; exists {
			delete(e.Value.Hash, f)
			removed++
		}
	}
	s.deleteIfEmptyLocked(key, e.Value)
	return removed, nil
}

// HExists reports whether field is present in the hash at key.
func (s *Store) HExists(key, field string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return false, nil
	}
	if e.Value.Kind != KindHash {
		return false, ErrWrongType
	}
	_, present := e.Value.Hash[field]
	return present, nil
}

// HLen returns the number of fields in the hash at key, or 0 if
// absent.
func (s *Store) HLen(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return 0, nil
	}
	if e.Value.Kind != KindHash {
		return 0, ErrWrongType
	}
	return int64(len(e.Value.Hash)), nil
}

// HGetAll returns every field/value pair in the hash at key as a flat
// field, value, field, value... slice, matching the wire reply shape.
func (s *Store) HGetAll(key string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return nil, nil
	}
	if e.Value.Kind != KindHash {
		return nil, ErrWrongType
	}

	out := make([][]byte, 0, len(e.Value.Hash)*2)
	for field, val := range e.Value.Hash {
		out = append(out, []byte(field), val)
	}
	return out, nil
}
