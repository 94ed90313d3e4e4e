package storage

import "strings"

// SlotTable is the table used by the SQL backends.
const SlotTable = "session_slots"

// Key joins a scope and a slot name into a storage key.
func Key(scope, slot string) string {
	return scope + ":" + slot
}

// ScopePrefix is the Clear prefix matching every slot of scope.
func ScopePrefix(scope string) string {
	return scope + ":"
}

// GlobEscape escapes the glob metacharacters understood by Redis MATCH.
func GlobEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
