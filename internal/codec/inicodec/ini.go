// Package inicodec serializes cache snapshots as an INI-style text format:
// one [table] block per table, one "key = value" line per entry, values
// JSON-encoded, blocks separated by a blank line.
package inicodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/discochess/stockroom/internal/codec"
	"github.com/discochess/stockroom/internal/tablemap"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements the INI-style snapshot format.
type Codec struct{}

// New returns a new INI codec.
func New() *Codec {
	return &Codec{}
}

// Encode writes the canonical form: one block per table in insertion order,
// keys in insertion order, a trailing blank line per block.
func (c *Codec) Encode(m *tablemap.Map) ([]byte, error) {
	var buf bytes.Buffer
	for _, name := range m.Names() {
		tbl, ok := m.Table(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "[%s]\n", name)
		for _, e := range tbl.Entries() {
			val, err := json.Marshal(e.Value)
			if err != nil {
				return nil, fmt.Errorf("encoding %s.%s: %w", name, e.Key, err)
			}
			fmt.Fprintf(&buf, "%s = %s\n", e.Key, val)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Decode parses INI-style content line by line. Parsing is tolerant:
// lines outside any section and lines without "=" are ignored, a repeated
// key keeps its last value, and a repeated section header merges into the
// earlier section. A value that is not valid JSON is kept as a raw string,
// which preserves legacy plain-string entries.
func (c *Codec) Decode(data []byte) (*tablemap.Map, error) {
	m := tablemap.New()

	var current *tablemap.Table
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			current = m.Ensure(name)
			continue
		}
		if current == nil {
			// Key-value line before the first section header.
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		if key == "" {
			continue
		}
		raw := strings.TrimSpace(line[eq+1:])

		var val any
		if err := json.Unmarshal([]byte(raw), &val); err != nil {
			// Legacy plain-string value.
			val = raw
		}
		current.Set(key, val)
	}
	return m, nil
}

// Extension returns "ini".
func (c *Codec) Extension() string {
	return "ini"
}
