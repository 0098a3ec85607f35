package resp

import (
	"strconv"
)

// Encode serialises f to its wire representation. Encode is total:
// every Frame produced by this package's constructors round-trips
// through Parse(Encode(f)) unchanged.
func Encode(f Frame) []byte {
	buf := make([]byte, 0, estimateSize(f))
	return appendFrame(buf, f)
}

func estimateSize(f Frame) int {
	switch f.Kind {
	case KindSimple, KindError:
		return len(f.Str) + 3
	case KindInteger:
		return 22
	case KindBulk:
		if f.Null {
			return 5
		}
		return len(f.Bulk) + 16
	case KindArray:
		if f.Null {
			return 5
		}
		n := 8
		for _, item := range f.Array {
			n += estimateSize(item)
		}
		return n
	default:
		return 0
	}
}

func appendFrame(buf []byte, f Frame) []byte {
	switch f.Kind {
	case KindSimple:
		buf = append(buf, '+')
		buf = append(buf, f.Str...)
		return append(buf, '\r', '\n')

	case KindError:
		buf = append(buf, '-')
		buf = append(buf, f.Str...)
		return append(buf, '\r', '\n')

	case KindInteger:
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, f.Int, 10)
		return append(buf, '\r', '\n')

	case KindBulk:
		if f.Null {
			return append(buf, '$', '-', '1', '\r', '\n')
		}
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(f.Bulk)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, f.Bulk...)
		return append(buf, '\r', '\n')

	case KindArray:
		if f.Null {
			return append(buf, '*', '-', '1', '\r', '\n')
		}
		buf = append(buf, '*')
		buf = strconv.AppendInt(buf, int64(len(f.Array)), 10)
		buf = append(buf, '\r', '\n')
		for _, item := range f.Array {
			buf = appendFrame(buf, item)
		}
		return buf

	default:
		return buf
	}
}
