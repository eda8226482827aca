package gate

import (
	"sort"
	"strings"
)

// IgnoreAllValue is the configuration value that skips the dependents check entirely.
const IgnoreAllValue = "ALL"

// IgnoreSet is a case-insensitive set of dependent keys the dependents check
// skips, or the sentinel that skips the check altogether. The zero value
// ignores nothing.
type IgnoreSet struct {
	all  bool
	keys map[string]struct{}
}

// IgnoreAll returns the sentinel set.
func IgnoreAll() IgnoreSet {
	return IgnoreSet{all: true}
}

// ParseIgnoreSet parses a semicolon-delimited list of keys. ALL (any case) as
// the only entry yields the sentinel, so "ALL;" skips the check too. Empty
// entries are dropped.
func ParseIgnoreSet(raw string) IgnoreSet {
	trimmed := strings.Trim(raw, "; \t\r\n")
	if strings.EqualFold(trimmed, IgnoreAllValue) {
		return IgnoreAll()
	}
	set := IgnoreSet{}
	for _, part := range strings.Split(trimmed, ";") {
		key := foldKey(part)
		if key == "" {
			continue
		}
		if set.keys == nil {
			set.keys = make(map[string]struct{})
		}
		set.keys[key] = struct{}{}
	}
	return set
}

// All reports whether the set is the ignore-everything sentinel.
func (s IgnoreSet) All() bool {
	return s.all
}

// Contains reports whether key is ignored.
func (s IgnoreSet) Contains(key string) bool {
	if s.all {
		return true
	}
	_, ok := s.keys[foldKey(key)]
	return ok
}

// Len returns the number of explicit keys.
func (s IgnoreSet) Len() int {
	return len(s.keys)
}

// String renders the set back into its configuration form with folded, sorted keys.
func (s IgnoreSet) String() string {
	if s.all {
		return IgnoreAllValue
	}
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ";")
}

// keySet is the per-invocation de-duplication set for provider keys.
type keySet map[string]struct{}

func (s keySet) has(key string) bool {
	_, ok := s[foldKey(key)]
	return ok
}

func (s keySet) add(key string) {
	s[foldKey(key)] = struct{}{}
}

func foldKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
