package store

import (
	"sync"

	goart "github.com/plar/go-adaptive-radix-tree"
)

// match implements the KEYS pattern language: '*' (zero or more),
// '?' (exactly one byte), '[...]' (character class, optional leading
// '^' negation, 'a-z' ranges), and literal bytes otherwise. Matching
// is byte-level and anchored to both ends of key.
func match(pattern, key string) bool {
	return matchBytes([]byte(pattern), []byte(key))
}

func matchBytes(pattern, key []byte) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Collapse consecutive '*' and try every split point.
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchBytes(pattern, key[i:]) {
					return true
				}
			}
			return false

		case '?':
			if len(key) == 0 {
				return false
			}
			pattern = pattern[1:]
			key = key[1:]

		case '[':
			end := classEnd(pattern)
			if end < 0 || len(key) == 0 {
				return false
			}
			if !matchClass(pattern[1:end], key[0]) {
				return false
			}
			pattern = pattern[end+1:]
			key = key[1:]

		case '\\':
			if len(pattern) < 2 || len(key) == 0 || pattern[1] != key[0] {
				return false
			}
			pattern = pattern[2:]
			key = key[1:]

		default:
			if len(key) == 0 || pattern[0] != key[0] {
				return false
			}
			pattern = pattern[1:]
			key = key[1:]
		}
	}
	return len(key) == 0
}

// classEnd returns the index of the closing ']' for a class starting
// at pattern[0] == '[', or -1 if unterminated.
func classEnd(pattern []byte) int {
	for i := 1; i < len(pattern); i++ {
		if pattern[i] == ']' {
			return i
		}
	}
	return -1
}

func matchClass(class []byte, c byte) bool {
	negate := false
	if len(class) > 0 && class[0] == '^' {
		negate = true
		class = class[1:]
	}
	found := false
	for i := 0; i < len(class); i++ {
		if i+2 < len(class) && class[i+1] == '-' {
			lo, hi := class[i], class[i+2]
			if lo > hi {
				lo, hi = hi, lo
			}
			if c >= lo && c <= hi {
				found = true
			}
			i += 2
			continue
		}
		if class[i] == c {
			found = true
		}
	}
	return found != negate
}

// literalPrefix returns the longest run of literal (non-meta) bytes at
// the start of pattern, used to prune the ART prefix index before the
// full glob matcher runs.
func literalPrefix(pattern string) string {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '\\':
			return pattern[:i]
		}
	}
	return pattern
}

// prefixIndex mirrors the store's live key set in an adaptive radix
// tree so KEYS can restrict its scan to keys sharing a pattern's
// literal prefix instead of visiting every key — grounded on the
// teacher's index/art.go, repurposed here from a log-position lookup
// to a prefix-enumeration structure.
type prefixIndex struct {
	mu   sync.Mutex
	tree goart.Tree
}

func newPrefixIndex() *prefixIndex {
	return &prefixIndex{tree: goart.New()}
}

func (p *prefixIndex) insert(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tree.Insert([]byte(key), struct{}{})
}

func (p *prefixIndex) remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tree.Delete([]byte(key))
}

// candidates invokes fn for every key that could possibly match
// pattern, using the pattern's literal prefix to narrow the walk. When
// the pattern has no literal prefix (e.g. starts with '*'), every key
// is a candidate.
func (p *prefixIndex) candidates(pattern string, fn func(key string)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefix := literalPrefix(pattern)
	visit := func(node goart.Node) bool {
		if node.Kind() != goart.Leaf {
			return true
		}
		fn(string(node.Key()))
		return true
	}
	if prefix == "" {
		p.tree.ForEach(visit)
		return
	}
	p.tree.ForEachPrefix(goart.Key(prefix), visit)
}
