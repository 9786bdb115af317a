package boltstore

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/discochess/stockroom/internal/store"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s := New(path, nil)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return openStore(t, filepath.Join(t.TempDir(), "cache.db"))
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "cache.db")
	s := New(path, nil)
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
}

func TestOperationsBeforeOpen(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "cache.db"), nil)
	ctx := context.Background()

	if _, _, err := s.Get(ctx, "t", "k"); !errors.Is(err, store.ErrNotOpen) {
		t.Errorf("Get() before Open error = %v, want ErrNotOpen", err)
	}
	if err := s.Set(ctx, "t", "k", 1); !errors.Is(err, store.ErrNotOpen) {
		t.Errorf("Set() before Open error = %v, want ErrNotOpen", err)
	}
}

func TestSetGetDelete(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "default", "k", 42); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Values round-trip through JSON, so numbers come back as float64.
	v, ok, err := s.Get(ctx, "default", "k")
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v, %v), want (42, true, nil)", v, ok, err)
	}
	if v != float64(42) {
		t.Errorf("Get() = %v (%T), want float64 42", v, v)
	}

	if err := s.Delete(ctx, "default", "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "default", "k"); ok {
		t.Error("Get() after Delete found the entry")
	}

	// Deleting from an absent table is a no-op.
	if err := s.Delete(ctx, "nope", "k"); err != nil {
		t.Errorf("Delete() on absent table error = %v, want nil", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := tempStore(t)

	v, ok, err := s.Get(context.Background(), "anytable", "missing")
	if err != nil {
		t.Fatalf("Get() error = %v, want nil for a missing key", err)
	}
	if ok || v != nil {
		t.Errorf("Get() = (%v, %v), want (nil, false)", v, ok)
	}
}

func TestNamespaceIsolation(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	// The same key in two tables never collides.
	s.Set(ctx, "a", "k", "va")
	s.Set(ctx, "b", "k", "vb")

	if v, _, _ := s.Get(ctx, "a", "k"); v != "va" {
		t.Errorf("Get(a, k) = %v, want va", v)
	}
	if v, _, _ := s.Get(ctx, "b", "k"); v != "vb" {
		t.Errorf("Get(b, k) = %v, want vb", v)
	}

	if err := s.Clear(ctx, "a"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a", "k"); ok {
		t.Error("Get(a, k) found an entry after Clear(a)")
	}
	if v, _, _ := s.Get(ctx, "b", "k"); v != "vb" {
		t.Errorf("Get(b, k) after Clear(a) = %v, want vb", v)
	}
}

func TestClearAbsentTable(t *testing.T) {
	s := tempStore(t)
	if err := s.Clear(context.Background(), "nope"); err != nil {
		t.Errorf("Clear() on absent table error = %v, want nil", err)
	}
}

func TestEntries_EngineByteOrder(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	// Inserted out of order; bbolt iterates in byte order.
	s.Set(ctx, "t", "c", 3)
	s.Set(ctx, "t", "a", 1)
	s.Set(ctx, "t", "b", 2)

	entries, err := s.Entries(ctx, "t")
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Entries() keys = %v, want %v", keys, want)
	}
}

func TestEntries_AbsentTable(t *testing.T) {
	s := tempStore(t)
	entries, err := s.Entries(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Entries() = %v, want empty", entries)
	}
}

func TestTables(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	s.Set(ctx, "beta", "k", 1)
	s.Set(ctx, "alpha", "k", 1)

	tables, err := s.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables() error = %v", err)
	}
	want := []string{"alpha", "beta"}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("Tables() = %v, want %v", tables, want)
	}
}

func TestClose_Idempotent(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "cache.db"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
	// Closing a never-opened store is also a no-op.
	if err := New(filepath.Join(t.TempDir(), "other.db"), nil).Close(); err != nil {
		t.Errorf("Close() on unopened store error = %v, want nil", err)
	}
}

func TestReopenPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s := openStore(t, path)
	s.Set(ctx, "t", "k", "v")
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := openStore(t, path)
	v, ok, err := reopened.Get(ctx, "t", "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("Get() after reopen = (%v, %v, %v), want (v, true, nil)", v, ok, err)
	}
}
