package prefs

import (
	"slices"
	"strconv"
)

// Editor collects changes to a Store. Nothing is visible to readers until
// Commit succeeds.
type Editor struct {
	store *Store
	ops   []func(map[string]entry)
}

// PutString sets key to a string value.
func (e *Editor) PutString(key, value string) *Editor {
	e.ops = append(e.ops, func(m map[string]entry) {
		m[key] = entry{kind: kindString, value: value}
	})
	return e
}

// PutBool sets key to a boolean value.
func (e *Editor) PutBool(key string, value bool) *Editor {
	e.ops = append(e.ops, func(m map[string]entry) {
		m[key] = entry{kind: kindBoolean, value: strconv.FormatBool(value)}
	})
	return e
}

// PutStringSet sets key to a set of strings, kept in the given order.
func (e *Editor) PutStringSet(key string, values []string) *Editor {
	items := slices.Clone(values)
	e.ops = append(e.ops, func(m map[string]entry) {
		m[key] = entry{kind: kindSet, items: items}
	})
	return e
}

// Remove deletes key.
func (e *Editor) Remove(key string) *Editor {
	e.ops = append(e.ops, func(m map[string]entry) {
		delete(m, key)
	})
	return e
}

// Clear removes every key. Puts queued after Clear still apply.
func (e *Editor) Clear() *Editor {
	e.ops = append(e.ops, func(m map[string]entry) {
		clear(m)
	})
	return e
}

// Commit writes the changes to disk and publishes them.
func (e *Editor) Commit() error {
	return e.store.commit(e.ops)
}
