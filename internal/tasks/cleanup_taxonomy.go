package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// QueueCleanupOrphanTaxonomy is the backlite queue name of the sweep.
const QueueCleanupOrphanTaxonomy = "cleanup_orphan_taxonomy"

// AuthorPruner deletes authors that no book references.
type AuthorPruner interface {
	DeleteOrphanAuthors() (int64, error)
}

// GenrePruner deletes genres that no book references.
type GenrePruner interface {
	DeleteOrphanGenres() (int64, error)
}

// CleanupOrphanTaxonomyTask removes authors and genres left without books,
// typically after book updates dropped their last link.
type CleanupOrphanTaxonomyTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphanTaxonomyTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueCleanupOrphanTaxonomy,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupResult counts the rows removed by one sweep.
type CleanupResult struct {
	Authors int64 `json:"authors"`
	Genres  int64 `json:"genres"`
}

// CleanupOrphanTaxonomy runs the sweep synchronously.
func CleanupOrphanTaxonomy(authors AuthorPruner, genres GenrePruner) (CleanupResult, error) {
	var result CleanupResult
	if authors == nil || genres == nil {
		return result, fmt.Errorf("orphan taxonomy cleaner not configured")
	}

	deleted, err := authors.DeleteOrphanAuthors()
	if err != nil {
		return result, fmt.Errorf("cleanup orphan authors: %w", err)
	}
	result.Authors = deleted

	deleted, err = genres.DeleteOrphanGenres()
	if err != nil {
		return result, fmt.Errorf("cleanup orphan genres: %w", err)
	}
	result.Genres = deleted

	return result, nil
}

// CleanupOrphanTaxonomyProcessor creates a processor function for CleanupOrphanTaxonomyTask.
func CleanupOrphanTaxonomyProcessor(authors AuthorPruner, genres GenrePruner) backlite.QueueProcessor[CleanupOrphanTaxonomyTask] {
	return func(ctx context.Context, task CleanupOrphanTaxonomyTask) error {
		result, err := CleanupOrphanTaxonomy(authors, genres)
		if err != nil {
			return err
		}
		log.Printf("[TASK] Cleaned up %d orphan authors and %d orphan genres", result.Authors, result.Genres)
		return nil
	}
}

// NewCleanupOrphanTaxonomyQueue creates a backlite queue for the sweep.
func NewCleanupOrphanTaxonomyQueue(authors AuthorPruner, genres GenrePruner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanTaxonomyProcessor(authors, genres))
}

// EnqueueOrphanTaxonomyCleanup adds one sweep to the queue and returns its task id.
func (c *Client) EnqueueOrphanTaxonomyCleanup(ctx context.Context) (string, error) {
	ids, err := c.Add(CleanupOrphanTaxonomyTask{}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue orphan taxonomy cleanup: %w", err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue orphan taxonomy cleanup: no task id returned")
	}
	return ids[0], nil
}
