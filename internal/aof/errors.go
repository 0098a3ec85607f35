package aof

import "errors"

// ErrDirectoryLocked is returned by Open when another process already
// holds the advisory lock on the AOF directory.
var ErrDirectoryLocked = errors.New("aof: directory already locked by another process")

// ErrCorrupt is returned by Replay when a malformed record is found
// before the file's tail. Unlike a torn tail (truncated and logged),
// this is fatal: the caller must abort startup.
var ErrCorrupt = errors.New("aof: corrupt record before end of file")
