// Package tablemap provides the insertion-ordered two-level mapping
// (table name -> key -> value) shared by the in-memory backends and the
// snapshot codecs. Iteration order is the order in which tables and keys
// were first written, which keeps serialized snapshots deterministic.
package tablemap

// Entry is a single key-value pair within a table.
type Entry struct {
	Key   string
	Value any
}

// Table is an insertion-ordered mapping from key to value.
// Overwriting an existing key keeps its original position.
type Table struct {
	keys []string
	vals map[string]any
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{vals: make(map[string]any)}
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.keys)
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (any, bool) {
	v, ok := t.vals[key]
	return v, ok
}

// Set inserts or overwrites the value stored under key.
func (t *Table) Set(key string, value any) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = value
}

// Delete removes key from the table. It reports whether the key was present.
func (t *Table) Delete(key string) bool {
	if _, ok := t.vals[key]; !ok {
		return false
	}
	delete(t.vals, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order. The slice is a copy.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Entries returns the entries in insertion order. The slice is a copy;
// values are shared with the table.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.keys))
	for _, k := range t.keys {
		entries = append(entries, Entry{Key: k, Value: t.vals[k]})
	}
	return entries
}

// Clone returns a structural copy of the table. Values are copied by
// reference.
func (t *Table) Clone() *Table {
	c := &Table{
		keys: make([]string, len(t.keys)),
		vals: make(map[string]any, len(t.vals)),
	}
	copy(c.keys, t.keys)
	for k, v := range t.vals {
		c.vals[k] = v
	}
	return c
}

// Map is an insertion-ordered mapping from table name to Table.
type Map struct {
	names  []string
	tables map[string]*Table
}

// New returns an empty map.
func New() *Map {
	return &Map{tables: make(map[string]*Table)}
}

// Len returns the number of tables.
func (m *Map) Len() int {
	return len(m.names)
}

// Names returns the table names in insertion order. The slice is a copy.
func (m *Map) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Table returns the table with the given name, without creating it.
func (m *Map) Table(name string) (*Table, bool) {
	t, ok := m.tables[name]
	return t, ok
}

// Ensure returns the table with the given name, creating an empty one if it
// does not exist yet. Tables spring into existence on first access; there is
// no separate create operation.
func (m *Map) Ensure(name string) *Table {
	if t, ok := m.tables[name]; ok {
		return t
	}
	t := NewTable()
	m.names = append(m.names, name)
	m.tables[name] = t
	return t
}

// Clear removes the named table and all its entries. Clearing an absent
// table is a no-op: an absent table and an empty table are equivalent.
func (m *Map) Clear(name string) {
	if _, ok := m.tables[name]; !ok {
		return
	}
	delete(m.tables, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

// Clone returns a structural copy of the map and all its tables.
func (m *Map) Clone() *Map {
	c := &Map{
		names:  make([]string, len(m.names)),
		tables: make(map[string]*Table, len(m.tables)),
	}
	copy(c.names, m.names)
	for name, t := range m.tables {
		c.tables[name] = t.Clone()
	}
	return c
}
