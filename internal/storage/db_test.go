package storage

import (
	"bytes"
	"errors"
	"testing"
)

// testDB runs the shared test suite against a DB implementation.
func testDB(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		err := db.Put([]byte("key1"), []byte("value1"))
		if err != nil {
			t.Fatalf("Put() error: %v", err)
		}

		val, err := db.Get([]byte("key1"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("value1")) {
			t.Errorf("Get() = %q, want %q", val, "value1")
		}
	})

	t.Run("GetNonexistent", func(t *testing.T) {
		_, err := db.Get([]byte("nonexistent"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() for missing key = %v, want ErrNotFound", err)
		}
	})

	t.Run("Has", func(t *testing.T) {
		db.Put([]byte("exists"), []byte("yes"))

		ok, err := db.Has([]byte("exists"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if !ok {
			t.Error("Has() = false for existing key")
		}

		ok, err = db.Has([]byte("missing"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if ok {
			t.Error("Has() = true for missing key")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db.Put([]byte("ow"), []byte("first"))
		db.Put([]byte("ow"), []byte("second"))

		val, err := db.Get([]byte("ow"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("second")) {
			t.Errorf("Get() after overwrite = %q, want %q", val, "second")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db.Put([]byte("del"), []byte("value"))

		err := db.Delete([]byte("del"))
		if err != nil {
			t.Fatalf("Delete() error: %v", err)
		}

		ok, _ := db.Has([]byte("del"))
		if ok {
			t.Error("key should be gone after Delete()")
		}
	})

	t.Run("ForEachPrefix", func(t *testing.T) {
		db.Put([]byte("p/a"), []byte("1"))
		db.Put([]byte("p/b"), []byte("2"))
		db.Put([]byte("q/c"), []byte("3"))

		var seen int
		err := db.ForEach([]byte("p/"), func(key, value []byte) error {
			seen++
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		if seen != 2 {
			t.Errorf("ForEach() visited %d keys, want 2", seen)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		batcher, ok := db.(Batcher)
		if !ok {
			t.Fatal("DB should support batching")
		}

		db.Put([]byte("b/existing"), []byte("old"))

		batch := batcher.NewBatch()
		if err := batch.Put([]byte("b/new"), []byte("fresh")); err != nil {
			t.Fatalf("batch Put: %v", err)
		}
		if err := batch.Delete([]byte("b/existing")); err != nil {
			t.Fatalf("batch Delete: %v", err)
		}

		// Nothing lands before Commit.
		if ok, _ := db.Has([]byte("b/new")); ok {
			t.Error("batch write visible before Commit")
		}

		if err := batch.Commit(); err != nil {
			t.Fatalf("batch Commit: %v", err)
		}

		if ok, _ := db.Has([]byte("b/new")); !ok {
			t.Error("batch write missing after Commit")
		}
		if ok, _ := db.Has([]byte("b/existing")); ok {
			t.Error("batch delete did not apply")
		}
	})
}

func TestMemoryDB(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}
