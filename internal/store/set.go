package store

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SAdd adds members to the set at key, creating it if absent. Returns
// the count of members actually added (duplicates don't count).
func (s *Store) SAdd(key string, members ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		e = &Entry{Value: Value{Kind: KindSet, Set: make(map[string]struct{})}}
		s.setLocked(key, e)
	} else if e.Value.Kind != KindSet {
		return 0, ErrWrongType
	}

	var added int64
	for _, m := range members {
		if _, exists := e.Value.Set[m]; !exists {
			e.Value.Set[m] = struct{}{}
			added++
		}
	}
	return added, nil
}

// SRem removes members from the set at key. Returns the count actually
// removed.
func (s *Store) SRem(key string, members ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return 0, nil
	}
	if e.Value.Kind != KindSet {
		return 0, ErrWrongType
	}

	var removed int64
	for _, m := range members {
		if _, exists := e.Value.Set[m]; exists {
			delete(e.Value.Set, m)
			removed++
		}
	}
	s.deleteIfEmptyLocked(key, e.Value)
	return removed, nil
}

// SMembers returns every member of the set at key, sorted for a
// deterministic reply (the map itself has no order).
func (s *Store) SMembers(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return nil, nil
	}
	if e.Value.Kind != KindSet {
		return nil, ErrWrongType
	}
	members := maps.Keys(e.Value.Set)
	slices.Sort(members)
	return members, nil
}

// SIsMember reports whether member is present in the set at key.
func (s *Store) SIsMember(key, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return false, nil
	}
	if e.Value.Kind != KindSet {
		return false, ErrWrongType
	}
	_, present := e.Value.Set[member]
	return present, nil
}

// SCard returns the number of members in the set at key, or 0 if
// absent.
func (s *Store) SCard(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.getLive(key)
	if !ok {
		return 0, nil
	}
	if e.Value.Kind != KindSet {
		return 0, ErrWrongType
	}
	return int64(len(e.Value.Set)), nil
}
