// Package codec provides serialization of cache snapshots to and from
// their on-disk text representations.
package codec

import "github.com/discochess/stockroom/internal/tablemap"

// Codec serializes a full cache snapshot (every table and entry) to bytes
// and back. Implementations must round-trip any value representable in
// JSON.
type Codec interface {
	// Encode serializes the snapshot. The output is the complete file
	// content; a flush always rewrites the whole file.
	Encode(m *tablemap.Map) ([]byte, error)

	// Decode parses file content into a snapshot. Decoding is tolerant:
	// malformed pieces are skipped or degraded, never fatal for the rest
	// of the file.
	Decode(data []byte) (*tablemap.Map, error)

	// Extension returns the file extension without dot (e.g., "ini",
	// "jsonl"). Used for default cache file names.
	Extension() string
}
