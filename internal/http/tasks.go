package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

// TaskQueue is the part of *tasks.Client the maintenance endpoints use.
type TaskQueue interface {
	EnqueueOrphanTaxonomyCleanup(ctx context.Context) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController exposes the orphan taxonomy sweep. With a queue the
// sweep is enqueued; without one it runs inline.
type TasksController struct {
	queue   TaskQueue
	authors tasks.AuthorPruner
	genres  tasks.GenrePruner
}

// NewTasksController creates a new TasksController. queue may be nil.
func NewTasksController(queue TaskQueue, authors tasks.AuthorPruner, genres tasks.GenrePruner) *TasksController {
	return &TasksController{queue: queue, authors: authors, genres: genres}
}

// CleanupOrphans handles POST /admin/cleanup/orphans
func (tc *TasksController) CleanupOrphans(c *gin.Context) {
	if tc.queue != nil {
		id, err := tc.queue.EnqueueOrphanTaxonomyCleanup(c.Request.Context())
		if err != nil {
			respondInternalError(c, err, "enqueue orphan cleanup")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"task_id": id,
			"type":    tasks.QueueCleanupOrphanTaxonomy,
			"message": "task enqueued",
		})
		return
	}

	result, err := tasks.CleanupOrphanTaxonomy(tc.authors, tc.genres)
	if err != nil {
		respondAppError(c, err, "cleanup orphans")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTaskStatus handles GET /admin/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.queue == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "task queue disabled", Code: CodeNotFound})
		return
	}

	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "get task status")
		return
	}

	code := http.StatusOK
	if status == backlite.TaskStatusNotFound {
		code = http.StatusNotFound
	}
	c.JSON(code, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
