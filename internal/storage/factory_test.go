//go:build !sqlite

package storage

import "testing"

func TestNewStoreKinds(t *testing.T) {
	store, err := NewStore("", "")
	if err != nil {
		t.Fatalf("default store failed: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	if _, err := NewStore("bolt", ""); err == nil {
		t.Fatal("expected unsupported backend error")
	}

	if _, err := NewStore("sqlite", "test.db"); err == nil {
		t.Fatal("expected sqlite unavailable error without build tag")
	}
}

func TestCloseIfSupported(t *testing.T) {
	if err := CloseIfSupported(NewMemoryStore()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
