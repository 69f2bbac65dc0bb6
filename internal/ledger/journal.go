package ledger

// journal records undo operations for the running transaction. Reverting to a
// checkpoint replays undo entries newest first.
type journal struct {
	entries []func()
}

func (j *journal) record(undo func()) {
	j.entries = append(j.entries, undo)
}

func (j *journal) checkpoint() int {
	return len(j.entries)
}

func (j *journal) revert(to int) {
	for i := len(j.entries) - 1; i >= to; i-- {
		j.entries[i]()
	}
	j.entries = j.entries[:to]
}

func (j *journal) reset() {
	j.entries = nil
}

// Set assigns v to *field and journals the previous value.
// Contract state must only be mutated through Set, Put and Delete so that a
// failing call leaves no trace.
func Set[T any](c *Call, field *T, v T) {
	old := *field
	c.ledger.journal.record(func() { *field = old })
	*field = v
}

// Put stores m[k] = v and journals the previous entry, including its absence
func Put[K comparable, V any](c *Call, m map[K]V, k K, v V) {
	put(&c.ledger.journal, m, k, v)
}

func put[K comparable, V any](j *journal, m map[K]V, k K, v V) {
	old, existed := m[k]
	j.record(func() {
		if existed {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
	m[k] = v
}

// Delete removes m[k] and journals the previous entry
func Delete[K comparable, V any](c *Call, m map[K]V, k K) {
	old, existed := m[k]
	if !existed {
		return
	}
	c.ledger.journal.record(func() { m[k] = old })
	delete(m, k)
}

// Append appends v to *s and journals the previous slice header.
// The appended slice never shares a backing array with the old one.
func Append[T any](c *Call, s *[]T, v T) {
	old := *s
	c.ledger.journal.record(func() { *s = old })
	next := make([]T, len(old), len(old)+1)
	copy(next, old)
	*s = append(next, v)
}
