package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStore_GetSetDestroy(t *testing.T) {
	store := NewMemoryStore()

	missing, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sess := &Session{
		UserID:    1,
		AccountID: 1,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Set("sid-1", sess))

	got, err := store.Get("sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, int64(1), got.AccountID)

	require.NoError(t, store.Destroy("sid-1"))

	got, err = store.Get("sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ExpiredSessionIsAbsent(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("sid-1", &Session{
		UserID:    1,
		AccountID: 1,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	got, err := store.Get("sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("sid-1", &Session{
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	first, err := store.Get("sid-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	first.UserID = 99

	second, err := store.Get("sid-1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, int64(1), second.UserID)
}

func TestMemoryStore_DestroyMissingIsNoop(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Destroy("never-existed"))
}

func TestNew_NilDBFallsBackToMemory(t *testing.T) {
	store := New(nil, zap.NewNop())
	require.NotNil(t, store)
	assert.IsType(t, &MemoryStore{}, store)
}
