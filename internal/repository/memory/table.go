package memory

import (
	"slices"
)

// table keeps rows keyed by id and remembers insertion order so listings are
// stable without relying on timestamps.
type table[T any] struct {
	rows    map[string]T
	order   []string
	journal *journal
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(key string) (T, bool) {
	v, ok := t.rows[key]
	return v, ok
}

func (t *table[T]) put(key string, v T) {
	if prev, ok := t.rows[key]; ok {
		t.journal.record(func() { t.rows[key] = prev })
	} else {
		t.order = append(t.order, key)
		t.journal.record(func() {
			delete(t.rows, key)
			t.order = t.order[:len(t.order)-1]
		})
	}
	t.rows[key] = v
}

func (t *table[T]) remove(key string) bool {
	prev, ok := t.rows[key]
	if !ok {
		return false
	}
	i := slices.Index(t.order, key)
	delete(t.rows, key)
	t.order = slices.Delete(t.order, i, i+1)
	t.journal.record(func() {
		t.rows[key] = prev
		t.order = slices.Insert(t.order, i, key)
	})
	return true
}

func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0)
	for _, k := range t.order {
		if v := t.rows[k]; keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, k := range t.order {
		if v := t.rows[k]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// journal collects the inverse of every write made during a transaction.
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

// rollback applies the inverses newest first, restoring the state the
// transaction started from.
func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}
