package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/services/task"
	"github.com/thenoetrevino/tablero/internal/types"
)

var errStaleRead = errors.New("listing evicted during read")

// Cache wraps a task.Service with a redis read-through cache for task
// listings. Every write evicts the listings of the projects it touched.
type Cache struct {
	task.Service
	redis *redis.Client
	ttl   time.Duration
	log   *slog.Logger
}

// NewCache returns base unchanged when client is nil.
func NewCache(base task.Service, client *redis.Client, ttl time.Duration, logger *slog.Logger) task.Service {
	if base == nil {
		panic("server.NewCache: base service is nil")
	}
	if client == nil {
		return base
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{Service: base, redis: client, ttl: ttl, log: logger}
}

func (c *Cache) ListTasks(ctx context.Context, projectID types.ProjectID) ([]models.Task, error) {
	if tasks, ok := c.load(ctx, projectID); ok {
		return tasks, nil
	}

	version := c.version(ctx, projectID)
	tasks, err := c.Service.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, projectID, version, tasks)
	return tasks, nil
}

func (c *Cache) CreateTask(ctx context.Context, req task.CreateTaskRequest) (models.Task, error) {
	t, err := c.Service.CreateTask(ctx, req)
	if err != nil {
		return t, err
	}
	c.evict(ctx, t.ProjectID)
	return t, nil
}

func (c *Cache) UpdateTask(ctx context.Context, req task.UpdateTaskRequest) (models.Task, error) {
	t, err := c.Service.UpdateTask(ctx, req)
	if err != nil {
		return t, err
	}
	c.evict(ctx, t.ProjectID)
	return t, nil
}

func (c *Cache) DeleteTask(ctx context.Context, projectID types.ProjectID, taskID types.TaskID) error {
	if err := c.Service.DeleteTask(ctx, projectID, taskID); err != nil {
		return err
	}
	c.evict(ctx, projectID)
	return nil
}

// SaveOrder carries no project ids, so they are looked up before the write.
func (c *Cache) SaveOrder(ctx context.Context, entries []task.OrderEntry) error {
	projects := make([]types.ProjectID, 0, 1)
	seen := map[types.ProjectID]bool{}
	for _, e := range entries {
		t, err := c.Service.GetTask(ctx, e.TaskID)
		if err != nil {
			continue
		}
		if !seen[t.ProjectID] {
			seen[t.ProjectID] = true
			projects = append(projects, t.ProjectID)
		}
	}

	if err := c.Service.SaveOrder(ctx, entries); err != nil {
		return err
	}
	c.evict(ctx, projects...)
	return nil
}

func (c *Cache) UpsertSection(ctx context.Context, projectID types.ProjectID, section models.Section) error {
	if err := c.Service.UpsertSection(ctx, projectID, section); err != nil {
		return err
	}
	c.evict(ctx, projectID)
	return nil
}

func (c *Cache) load(ctx context.Context, projectID types.ProjectID) ([]models.Task, bool) {
	data, err := c.redis.Get(ctx, tasksCacheKey(projectID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// fall back to the store without failing
			c.log.Warn("task cache read failed", "project_id", projectID, "error", err)
			_ = c.redis.Del(ctx, tasksCacheKey(projectID)).Err()
		}
		return nil, false
	}
	var tasks []models.Task
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		_ = c.redis.Del(ctx, tasksCacheKey(projectID)).Err()
		return nil, false
	}
	return tasks, true
}

// version returns the project's eviction counter. A missing counter is 0.
func (c *Cache) version(ctx context.Context, projectID types.ProjectID) int64 {
	v, err := c.redis.Get(ctx, tasksVersionKey(projectID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

// store caches a listing read at version. It skips the write when an
// eviction bumped the counter since the read started, so a slow read never
// replaces a fresher state.
func (c *Cache) store(ctx context.Context, projectID types.ProjectID, version int64, tasks []models.Task) {
	if c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(tasks)
	if err != nil {
		return
	}

	verKey := tasksVersionKey(projectID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return errStaleRead
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, tasksCacheKey(projectID), data, c.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleRead), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("task cache write skipped, listing changed during read", "project_id", projectID)
	default:
		c.log.Warn("task cache write failed", "project_id", projectID, "error", err)
	}
}

func (c *Cache) evict(ctx context.Context, projects ...types.ProjectID) {
	if len(projects) == 0 {
		return
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range projects {
			pipe.Incr(ctx, tasksVersionKey(p))
			pipe.Del(ctx, tasksCacheKey(p))
		}
		return nil
	})
	if err != nil {
		c.log.Warn("task cache evict failed", "projects", len(projects), "error", err)
	}
}

func tasksCacheKey(projectID types.ProjectID) string {
	return "tablero:tasks:" + string(projectID)
}

func tasksVersionKey(projectID types.ProjectID) string {
	return "tablero:tasks-version:" + string(projectID)
}
