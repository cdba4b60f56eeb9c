// Package symtab implements the insertion-ordered identifier table shared
// between the lexer and later compiler phases. Interned names get a stable
// integer handle, assigned in first-seen order starting at 0; handles are
// never reused or invalidated and entries are never removed.
package symtab

// Entry is one (handle, name) pair as produced by Entries.
type Entry struct {
	Handle int
	Name   string
}

type Table struct {
	handles map[string]int
	names   []string
}

func New() *Table {
	return &Table{handles: make(map[string]int)}
}

// Intern returns the handle for name, inserting it if unseen. Repeated
// calls with equal text always return the identical handle.
func (t *Table) Intern(name string) int {
	if h, ok := t.handles[name]; ok {
		return h
	}
	h := len(t.names)
	t.handles[name] = h
	t.names = append(t.names, name)
	return h
}

// Lookup reports the handle for name without inserting it.
func (t *Table) Lookup(name string) (int, bool) {
	h, ok := t.handles[name]
	return h, ok
}

// Name returns the text interned under handle h.
func (t *Table) Name(h int) (string, bool) {
	if h < 0 || h >= len(t.names) {
		return "", false
	}
	return t.names[h], true
}

func (t *Table) Len() int { return len(t.names) }

// Entries returns the (handle, name) pairs in insertion order, for
// diagnostic dumps.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.names))
	for h, name := range t.names {
		entries[h] = Entry{Handle: h, Name: name}
	}
	return entries
}
