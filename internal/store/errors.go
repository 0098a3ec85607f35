package store

import "errors"

// ErrWrongType is returned whenever a typed operation targets a key
// holding a different Value variant. The store is left unchanged.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
