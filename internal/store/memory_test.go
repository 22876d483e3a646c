package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhysstever/CardMatchGame/internal/game"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	s, err := game.New(game.Options{Rows: 2, Columns: 2})
	require.NoError(t, err)

	_, err = st.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Save(ctx, s))
	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())

	require.NoError(t, st.Delete(ctx, s.ID))
	require.NoError(t, st.Delete(ctx, "missing"))
	assert.Zero(t, st.Len())
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := game.New(game.Options{Rows: 2, Columns: 2})
			if err != nil {
				t.Error(err)
				return
			}
			_ = st.Save(ctx, s)
			_, _ = st.Get(ctx, s.ID)
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, st.Len())
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	s, err := game.New(game.Options{Rows: 2, Columns: 2})
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, s))

	assert.Zero(t, st.Prune(ctx, s.StartedAt.Add(-time.Minute)), "started after cutoff")
	assert.Equal(t, 1, st.Len())

	assert.Equal(t, 1, st.Prune(ctx, time.Now().Add(time.Minute)))
	_, err = st.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
