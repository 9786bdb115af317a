// Package jsonlcodec serializes cache snapshots as a line-oriented record
// log: one JSON array [table, key, value] per line.
package jsonlcodec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/discochess/stockroom/internal/codec"
	"github.com/discochess/stockroom/internal/tablemap"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements the record-log snapshot format.
type Codec struct {
	logger *zap.Logger
}

// New returns a new record-log codec.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger}
}

// Encode writes one record per currently-live key. The output is a
// compacted snapshot, not an append log: repeated flushes of the same state
// produce the same file.
func (c *Codec) Encode(m *tablemap.Map) ([]byte, error) {
	var buf bytes.Buffer
	for _, name := range m.Names() {
		tbl, ok := m.Table(name)
		if !ok {
			continue
		}
		for _, e := range tbl.Entries() {
			line, err := json.Marshal([]any{name, e.Key, e.Value})
			if err != nil {
				return nil, fmt.Errorf("encoding %s.%s: %w", name, e.Key, err)
			}
			buf.Write(line)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// Decode applies records in file order, so a key repeated across lines is
// last-write-wins. A line that fails to decode is skipped with a warning;
// it never aborts the rest of the file.
func (c *Codec) Decode(data []byte) (*tablemap.Map, error) {
	m := tablemap.New()

	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		table, key, value, err := decodeRecord(line)
		if err != nil {
			c.logger.Warn("skipping malformed record",
				zap.Int("line", i+1),
				zap.Error(err),
			)
			continue
		}
		m.Ensure(table).Set(key, value)
	}
	return m, nil
}

// Extension returns "jsonl".
func (c *Codec) Extension() string {
	return "jsonl"
}

// decodeRecord parses a single [table, key, value] record.
func decodeRecord(line []byte) (table, key string, value any, err error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(line, &parts); err != nil {
		return "", "", nil, err
	}
	if len(parts) != 3 {
		return "", "", nil, fmt.Errorf("record has %d elements, want 3", len(parts))
	}
	if err := json.Unmarshal(parts[0], &table); err != nil {
		return "", "", nil, fmt.Errorf("table name: %w", err)
	}
	if err := json.Unmarshal(parts[1], &key); err != nil {
		return "", "", nil, fmt.Errorf("key: %w", err)
	}
	if err := json.Unmarshal(parts[2], &value); err != nil {
		return "", "", nil, fmt.Errorf("value: %w", err)
	}
	return table, key, value, nil
}
