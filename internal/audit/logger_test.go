package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

type memStore struct {
	entries map[string][]byte
	failFor map[string]bool
}

func newMemStore() *memStore {
	return &memStore{entries: map[string][]byte{}, failFor: map[string]bool{}}
}

func (m *memStore) Name() string { return "mem" }

func (m *memStore) Put(ctx context.Context, e Entry) error {
	if m.failFor[e.Key] {
		return errors.New("bucket unavailable")
	}
	if _, ok := m.entries[e.Key]; ok {
		return ErrDuplicate
	}
	m.entries[e.Key] = e.Body
	return nil
}

func (m *memStore) Close() error { return nil }

func record(sid, to string, created time.Time) models.DispatchRecord {
	return models.DispatchRecord{
		SID:         sid,
		To:          to,
		From:        "+442033225373",
		Topic:       "yellow",
		Level:       52.33,
		TopicLevel:  models.TierYellow,
		Body:        "The air pollution is currently at yellow levels, the current index level is 52.33.",
		Status:      "queued",
		DateCreated: created,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "message-SM4b03fc56258a4784b695857b09aa0251.json", Key("SM4b03fc56258a4784b695857b09aa0251"))
}

func TestPersist_AllStored(t *testing.T) {
	store := newMemStore()
	l := NewLogger(store)
	now := time.Now().UTC()

	res := l.Persist(context.Background(), []models.DispatchRecord{
		record("SM1", "hash1", now),
		record("SM2", "hash2", now),
	})

	assert.Equal(t, []string{"SM1", "SM2"}, res.IDs)
	assert.Empty(t, res.Failed)
	require.Contains(t, store.entries, "message-SM1.json")

	var got models.DispatchRecord
	require.NoError(t, json.Unmarshal(store.entries["message-SM1.json"], &got))
	assert.Equal(t, "hash1", got.To)
	assert.Equal(t, 52.33, got.Level)
	assert.Equal(t, models.TierYellow, got.TopicLevel)
}

func TestPersist_PartialFailure(t *testing.T) {
	store := newMemStore()
	store.failFor["message-SM2.json"] = true
	l := NewLogger(store)
	now := time.Now().UTC()

	res := l.Persist(context.Background(), []models.DispatchRecord{
		record("SM1", "a", now),
		record("SM2", "b", now),
		record("SM3", "c", now),
	})

	assert.Equal(t, []string{"SM1", "SM3"}, res.IDs)
	assert.Equal(t, []string{"SM2"}, res.Failed)
}

func TestPersist_MissingID(t *testing.T) {
	res := NewLogger(newMemStore()).Persist(context.Background(), []models.DispatchRecord{record("", "a", time.Now())})
	assert.Empty(t, res.IDs)
	assert.Len(t, res.Failed, 1)
}

func TestPersist_DuplicateCountsAsPersisted(t *testing.T) {
	store := newMemStore()
	l := NewLogger(store)
	rec := record("SM1", "a", time.Now())

	l.Persist(context.Background(), []models.DispatchRecord{rec})
	res := l.Persist(context.Background(), []models.DispatchRecord{rec})

	assert.Equal(t, []string{"SM1"}, res.IDs)
	assert.Empty(t, res.Failed)
}

func TestPersist_Empty(t *testing.T) {
	res := NewLogger(newMemStore()).Persist(context.Background(), nil)
	assert.NotNil(t, res.IDs)
	assert.Empty(t, res.IDs)
}

func TestFileStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "logs"))
	require.NoError(t, err)

	l := NewLogger(store)
	res := l.Persist(context.Background(), []models.DispatchRecord{record("SM1", "a", time.Now())})
	require.Equal(t, []string{"SM1"}, res.IDs)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "message-SM1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sid":"SM1"`)

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should be cleaned up")
}

func TestFileStore_DuplicateKeepsOriginal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Entry{Key: "message-SM1.json", Body: []byte("first")}))
	err = store.Put(ctx, Entry{Key: "message-SM1.json", Body: []byte("second")})
	assert.ErrorIs(t, err, ErrDuplicate)

	data, err := os.ReadFile(filepath.Join(store.dir, "message-SM1.json"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestFileStore_CancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Put(ctx, Entry{Key: "message-SM1.json"}), context.Canceled)
}
