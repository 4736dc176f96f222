package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tablero/internal/database"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Service defines the task operations behind the development API server
type Service interface {
	// Read operations
	ListTasks(ctx context.Context, projectID types.ProjectID) ([]models.Task, error)
	ListSections(ctx context.Context, projectID types.ProjectID) ([]models.Section, error)
	GetTask(ctx context.Context, taskID types.TaskID) (models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (models.Task, error)
	DeleteTask(ctx context.Context, projectID types.ProjectID, taskID types.TaskID) error
	SaveOrder(ctx context.Context, entries []OrderEntry) error
	UpsertSection(ctx context.Context, projectID types.ProjectID, section models.Section) error
}

// CreateTaskRequest encapsulates all data needed to create a task.
// Status is in either vocabulary; Priority is its wire name.
type CreateTaskRequest struct {
	ProjectID   types.ProjectID
	Title       string
	Description string
	Status      string
	SectionID   types.SectionID
	Priority    string
	DueDate     *time.Time
	Assignees   []string
	Attachments []models.Attachment
	Subtasks    []models.Subtask
	Order       *int // nil appends after the last task
}

// UpdateTaskRequest encapsulates all data needed to update a task
// Fields with pointers are optional - nil means don't update
type UpdateTaskRequest struct {
	ProjectID    types.ProjectID
	TaskID       types.TaskID
	Title        *string
	Description  *string
	Status       *string
	SectionID    *types.SectionID
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
	Assignees    *[]string
	Order        *int
}

// OrderEntry is one element of a batched order save
type OrderEntry struct {
	TaskID types.TaskID
	Order  int
	Lane   string // "status:<api status>" or "section:<id>"
}

type service struct {
	repo   *database.Repository
	events events.Publisher
	log    *slog.Logger
}

// NewService creates a new task service. publisher may be nil.
func NewService(repo *database.Repository, publisher events.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, events: publisher, log: logger}
}

// ============================================================================
// READS
// ============================================================================

func (s *service) ListTasks(ctx context.Context, projectID types.ProjectID) ([]models.Task, error) {
	if err := validateProjectID(projectID); err != nil {
		return nil, err
	}
	return s.repo.Tasks.ListByProject(ctx, projectID)
}

func (s *service) ListSections(ctx context.Context, projectID types.ProjectID) ([]models.Section, error) {
	if err := validateProjectID(projectID); err != nil {
		return nil, err
	}
	return s.repo.Sections.ListByProject(ctx, projectID)
}

func (s *service) GetTask(ctx context.Context, taskID types.TaskID) (models.Task, error) {
	if taskID.IsDraft() {
		return models.Task{}, ErrInvalidTaskID
	}
	t, err := s.repo.Tasks.GetByID(ctx, taskID)
	if errors.Is(err, database.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	return t, err
}

// ============================================================================
// WRITES
// ============================================================================

// CreateTask handles task creation with validation and business rules
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (models.Task, error) {
	if err := s.validateCreateTask(req); err != nil {
		return models.Task{}, err
	}

	priority, err := parsePriority(req.Priority)
	if err != nil {
		return models.Task{}, err
	}

	t := models.Task{
		ID:          types.TaskID(uuid.NewString()),
		ProjectID:   req.ProjectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      parseStatus(req.Status),
		SectionID:   req.SectionID,
		Priority:    priority,
		DueDate:     req.DueDate,
		Assignees:   normalizeAssignees(req.Assignees),
		Attachments: req.Attachments,
		Subtasks:    req.Subtasks,
	}

	if err := s.repo.Projects.Ensure(ctx, t.ProjectID, ""); err != nil {
		return models.Task{}, fmt.Errorf("failed to ensure project: %w", err)
	}
	if !t.SectionID.IsZero() {
		if err := s.checkSection(ctx, t.ProjectID, t.SectionID); err != nil {
			return models.Task{}, err
		}
	}

	if req.Order != nil {
		t.Order = *req.Order
	} else {
		next, err := s.repo.Tasks.NextOrder(ctx, t.ProjectID)
		if err != nil {
			return models.Task{}, fmt.Errorf("failed to compute order: %w", err)
		}
		t.Order = next
	}

	if err := s.repo.Tasks.Create(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Info("task created", "task_id", t.ID, "project_id", t.ProjectID)
	s.publishTaskEvent(t.ProjectID, t.ID)
	return t, nil
}

// UpdateTask applies the non-nil fields of req and returns the stored task
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) (models.Task, error) {
	if req.TaskID.IsDraft() {
		return models.Task{}, ErrInvalidTaskID
	}
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return models.Task{}, err
		}
	}
	if req.Order != nil && *req.Order < 0 {
		return models.Task{}, ErrInvalidPosition
	}

	t, err := s.load(ctx, req.ProjectID, req.TaskID)
	if err != nil {
		return models.Task{}, err
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = parseStatus(*req.Status)
	}
	if req.SectionID != nil {
		if !req.SectionID.IsZero() {
			if err := s.checkSection(ctx, t.ProjectID, *req.SectionID); err != nil {
				return models.Task{}, err
			}
		}
		t.SectionID = *req.SectionID
	}
	if req.Priority != nil {
		p, err := parsePriority(*req.Priority)
		if err != nil {
			return models.Task{}, err
		}
		t.Priority = p
	}
	if req.ClearDueDate {
		t.DueDate = nil
	} else if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Assignees != nil {
		t.Assignees = normalizeAssignees(*req.Assignees)
	}
	if req.Order != nil {
		t.Order = *req.Order
	}

	if err := s.repo.Tasks.Update(ctx, t); err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	s.publishTaskEvent(t.ProjectID, t.ID)
	return t, nil
}

func (s *service) DeleteTask(ctx context.Context, projectID types.ProjectID, taskID types.TaskID) error {
	if taskID.IsDraft() {
		return ErrInvalidTaskID
	}
	t, err := s.load(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if err := s.repo.Tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.log.Info("task deleted", "task_id", taskID, "project_id", t.ProjectID)
	s.publishTaskEvent(t.ProjectID, taskID)
	return nil
}

// SaveOrder writes a batch of (task, order, lane) entries atomically. A
// status lane sets the status and clears the section; a section lane sets
// the section and applies the section's default status when it has one.
func (s *service) SaveOrder(ctx context.Context, entries []OrderEntry) error {
	if len(entries) == 0 {
		return ErrEmptyBatch
	}

	updates := make([]database.OrderUpdate, 0, len(entries))
	projects := map[types.ProjectID]bool{}
	sections := map[types.ProjectID]map[types.SectionID]models.Section{}

	for _, e := range entries {
		if e.TaskID.IsDraft() {
			return ErrInvalidTaskID
		}
		if e.Order < 0 {
			return ErrInvalidPosition
		}
		lane, err := models.ParseLaneKey(e.Lane)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLane, e.Lane)
		}

		t, err := s.load(ctx, "", e.TaskID)
		if err != nil {
			return err
		}
		projects[t.ProjectID] = true

		u := database.OrderUpdate{TaskID: t.ID, Order: e.Order, Status: lane.Status()}
		if lane.IsSection() {
			known, ok := sections[t.ProjectID]
			if !ok {
				known, err = s.sectionIndex(ctx, t.ProjectID)
				if err != nil {
					return err
				}
				sections[t.ProjectID] = known
			}
			sec, ok := known[lane.SectionID()]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownSection, lane.SectionID())
			}
			u.SectionID = sec.ID
			u.Status = t.Status
			if sec.HasDefaultStatus() {
				u.Status = sec.DefaultStatus
			}
		}
		updates = append(updates, u)
	}

	if err := s.repo.Tasks.ApplyOrder(ctx, updates); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to save order: %w", err)
	}

	s.log.Info("order saved", "entries", len(entries), "projects", len(projects))
	for p := range projects {
		s.publishTaskEvent(p, "")
	}
	return nil
}

func (s *service) UpsertSection(ctx context.Context, projectID types.ProjectID, section models.Section) error {
	if err := validateProjectID(projectID); err != nil {
		return err
	}
	if section.ID.IsZero() {
		section.ID = types.SectionID(uuid.NewString())
	}
	if strings.TrimSpace(section.Name) == "" {
		return ErrEmptyTitle
	}
	if err := s.repo.Projects.Ensure(ctx, projectID, ""); err != nil {
		return fmt.Errorf("failed to ensure project: %w", err)
	}
	if err := s.repo.Sections.Upsert(ctx, projectID, section); err != nil {
		return fmt.Errorf("failed to save section: %w", err)
	}
	s.publishTaskEvent(projectID, "")
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

// load fetches a task and checks it belongs to projectID when one is given
func (s *service) load(ctx context.Context, projectID types.ProjectID, taskID types.TaskID) (models.Task, error) {
	t, err := s.repo.Tasks.GetByID(ctx, taskID)
	if errors.Is(err, database.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	if projectID != "" && t.ProjectID != projectID {
		return models.Task{}, ErrProjectMismatch
	}
	return t, nil
}

func (s *service) checkSection(ctx context.Context, projectID types.ProjectID, id types.SectionID) error {
	known, err := s.sectionIndex(ctx, projectID)
	if err != nil {
		return err
	}
	if _, ok := known[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}
	return nil
}

func (s *service) sectionIndex(ctx context.Context, projectID types.ProjectID) (map[types.SectionID]models.Section, error) {
	list, err := s.repo.Sections.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	out := make(map[types.SectionID]models.Section, len(list))
	for _, sec := range list {
		out[sec.ID] = sec
	}
	return out, nil
}

func (s *service) validateCreateTask(req CreateTaskRequest) error {
	if err := validateProjectID(req.ProjectID); err != nil {
		return err
	}
	if err := validateTitle(req.Title); err != nil {
		return err
	}
	if req.Order != nil && *req.Order < 0 {
		return ErrInvalidPosition
	}
	return nil
}

func validateProjectID(id types.ProjectID) error {
	if strings.TrimSpace(string(id)) == "" {
		return ErrInvalidProjectID
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// parseStatus accepts either vocabulary
func parseStatus(raw string) models.Status {
	return models.NormalizeStatus(string(models.UIStatus(strings.TrimSpace(raw))))
}

func parsePriority(raw string) (models.Priority, error) {
	p, err := models.ParsePriority(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

// normalizeAssignees matches what the store returns: no assignees is nil
func normalizeAssignees(in []string) []string {
	out := models.NormalizeAssignees(in)
	if len(out) == 0 {
		return nil
	}
	return out
}

// publishTaskEvent tells board clients of the project to refresh
func (s *service) publishTaskEvent(projectID types.ProjectID, taskID types.TaskID) {
	if s.events == nil {
		return
	}
	_ = events.PublishWithRetry(s.events, events.TasksChanged(projectID, taskID), 3)
}
