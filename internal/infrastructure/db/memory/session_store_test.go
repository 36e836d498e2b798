package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

func TestSessionStore_SaveLoadDelete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	sess := &domain.Session{ID: "abc", Email: "a@x.com", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got.Email)

	got.Email = "mutated"
	again, _ := store.Load(ctx, "abc")
	require.Equal(t, "a@x.com", again.Email)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Expired(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "old", ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, store.Save(ctx, &domain.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))

	_, err := store.Load(ctx, "old")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.Equal(t, 1, store.Len())
}

func TestSessionStore_Purge(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now()
	store.now = func() time.Time { return now }

	for _, id := range []string{"a", "b"} {
		require.NoError(t, store.Save(ctx, &domain.Session{ID: id, ExpiresAt: now.Add(-time.Minute)}))
	}
	require.NoError(t, store.Save(ctx, &domain.Session{ID: "c", ExpiresAt: now.Add(time.Minute)}))

	require.Equal(t, 2, store.Purge())
	require.Equal(t, 1, store.Len())
}

func TestSessionStore_Concurrent(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = store.Save(ctx, &domain.Session{ID: id, ExpiresAt: time.Now().Add(time.Hour)})
			_, _ = store.Load(ctx, id)
			_ = store.Delete(ctx, id)
		}(i)
	}
	wg.Wait()
}

func TestSessionStore_RunJanitor(t *testing.T) {
	store := NewSessionStore()
	require.NoError(t, store.Save(context.Background(), &domain.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
