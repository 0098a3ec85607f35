package aof

import (
	"os"

	"redikv/internal/logging"
	"redikv/internal/resp"
)

// Replay opens path (a no-op, logged as a normal first-run condition,
// if the file does not exist yet) and applies each decoded command
// Frame via apply, in file order. It returns the count of records
// applied.
//
// A StatusIncomplete result can only occur at the genuine end of the
// file, since Replay loads the whole file before scanning — there is
// no more data to arrive later, unlike a live connection. That makes
// it an unambiguous torn tail: the file is truncated to the last
// complete record and replay continues as if nothing were wrong. Any
// StatusInvalid result, by contrast, is a structural protocol
// violation rather than a truncation, and can only mean the file was
// corrupted somewhere a truncation could not explain — replay aborts.
func Replay(path string, sink logging.Sink, apply func(resp.Frame) error) (int, error) {
	if sink == nil {
		sink = logging.Default
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			sink.Info("no AOF file found, starting empty", "path", path)
			return 0, nil
		}
		return 0, err
	}

	offset := 0
	count := 0
	for offset < len(buf) {
		status, n, scanErr := resp.Check(buf[offset:])
		switch status {
		case resp.StatusComplete:
			frame, _, parseErr := resp.Parse(buf[offset : offset+n])
			if parseErr != nil {
				return count, parseErr
			}
			if err := apply(frame); err != nil {
				return count, err
			}
			offset += n
			count++

		case resp.StatusIncomplete:
			sink.Warn("torn tail record truncated", "path", path, "offset", offset, "discarded_bytes", len(buf)-offset)
			if err := os.Truncate(path, int64(offset)); err != nil {
				return count, err
			}
			return count, nil

		case resp.StatusInvalid:
			return count, ErrCorrupt
		}
		_ = scanErr
	}

	sink.Info("AOF replay completed", "path", path, "records", count)
	return count, nil
}
