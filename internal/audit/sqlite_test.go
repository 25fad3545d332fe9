package audit

import (
	"context"
	"testing"
	"time"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	db, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func TestSQLiteStore_PutAndCount(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	l := NewLogger(db)

	res := l.Persist(ctx, []models.DispatchRecord{
		record("SM1", "hash1", time.Now()),
		record("SM2", "hash2", time.Now()),
	})
	if len(res.IDs) != 2 {
		t.Fatalf("expected 2 persisted ids, got %v (failed %v)", res.IDs, res.Failed)
	}

	n, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}
}

func TestSQLiteStore_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	e := Entry{Key: Key("SM1"), Record: record("SM1", "hash1", time.Now()), Body: []byte("{}")}

	if err := db.Put(ctx, e); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	if err := db.Put(ctx, e); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestSQLiteStore_LastMessages(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	older := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC)

	NewLogger(db).Persist(ctx, []models.DispatchRecord{
		record("SM1", "hash1", older),
		record("SM2", "hash1", newer),
		record("SM3", "hash2", older),
	})

	last, err := db.LastMessages(ctx)
	if err != nil {
		t.Fatalf("LastMessages failed: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 hashes, got %d", len(last))
	}
	if !last["hash1"].Equal(newer) {
		t.Errorf("expected hash1 last message %v, got %v", newer, last["hash1"])
	}
	if !last["hash2"].Equal(older) {
		t.Errorf("expected hash2 last message %v, got %v", older, last["hash2"])
	}
}

func TestSQLiteStore_LastMessagesEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	last, err := db.LastMessages(context.Background())
	if err != nil {
		t.Fatalf("LastMessages failed: %v", err)
	}
	if len(last) != 0 {
		t.Errorf("expected no entries, got %d", len(last))
	}
}
