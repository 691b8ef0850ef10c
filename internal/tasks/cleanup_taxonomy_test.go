package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	authors, genres int64
	err             error
	calls           chan struct{}
}

func (f *fakePruner) DeleteOrphanAuthors() (int64, error) {
	return f.authors, f.err
}

func (f *fakePruner) DeleteOrphanGenres() (int64, error) {
	if f.calls != nil {
		f.calls <- struct{}{}
	}
	return f.genres, nil
}

func TestCleanupOrphanTaxonomyTaskConfig(t *testing.T) {
	cfg := CleanupOrphanTaxonomyTask{}.Config()

	assert.Equal(t, QueueCleanupOrphanTaxonomy, cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Timeout)
	require.NotNil(t, cfg.Retention)
	assert.Equal(t, 24*time.Hour, cfg.Retention.Duration)
}

func TestCleanupOrphanTaxonomy(t *testing.T) {
	t.Run("reports both counts", func(t *testing.T) {
		pruner := &fakePruner{authors: 2, genres: 3}

		result, err := CleanupOrphanTaxonomy(pruner, pruner)

		require.NoError(t, err)
		assert.Equal(t, CleanupResult{Authors: 2, Genres: 3}, result)
	})

	t.Run("stops on author failure", func(t *testing.T) {
		pruner := &fakePruner{err: errors.New("locked")}

		_, err := CleanupOrphanTaxonomy(pruner, pruner)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cleanup orphan authors")
	})

	t.Run("requires both pruners", func(t *testing.T) {
		_, err := CleanupOrphanTaxonomy(nil, &fakePruner{})
		assert.Error(t, err)
	})
}

func TestCleanupOrphanTaxonomyQueue(t *testing.T) {
	cfg := DefaultConfig()
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	pruner := &fakePruner{calls: make(chan struct{}, 1)}
	client.Register(NewCleanupOrphanTaxonomyQueue(pruner, pruner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.EnqueueOrphanTaxonomyCleanup(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case <-pruner.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not executed within timeout")
	}
}
