package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/services/task"
	"github.com/thenoetrevino/tablero/internal/types"
)

const maxBodySize = 1 << 20

// Register wires the task API routes on e. auth may be nil to disable checks.
func Register(e *echo.Echo, svc task.Service, auth *Auth, logger *slog.Logger) {
	read := requireAuth(auth, false)
	write := requireAuth(auth, true)

	e.GET("/healthz", healthz())
	e.GET("/projects/:projectId/tasks", listTasks(svc), read)
	e.GET("/projects/:projectId/sections", listSections(svc), read)
	e.POST("/projects/:projectId/tasks", createTask(svc, logger), write)
	e.PATCH("/projects/:projectId/tasks", updateTask(svc), write)
	e.DELETE("/projects/:projectId/tasks", deleteTask(svc), write)
	e.PUT("/projects/:projectId/sections", upsertSection(svc), write)
	e.PATCH("/tasks", saveOrder(svc, logger), write)
}

type (
	okResponse struct {
		Success bool `json:"success"`
	}
	errorResponse struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	taskResponse struct {
		Success bool     `json:"success"`
		Task    taskJSON `json:"task"`
	}
	tasksResponse struct {
		Success bool       `json:"success"`
		Tasks   []taskJSON `json:"tasks"`
	}
	sectionsResponse struct {
		Success  bool          `json:"success"`
		Sections []sectionJSON `json:"sections"`
	}
)

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Success: false, Error: msg})
}

// failErr maps service errors onto status codes
func failErr(c echo.Context, err error) error {
	switch {
	case task.IsValidation(err):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, task.ErrProjectMismatch):
		return fail(c, http.StatusNotFound, err.Error())
	}
	c.Logger().Error(err)
	return fail(c, http.StatusInternalServerError, "internal error")
}

func requireAuth(auth *Auth, write bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth == nil {
				return next(c)
			}
			p, err := auth.Verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return fail(c, http.StatusUnauthorized, err.Error())
			}
			if write && !p.CanWrite() {
				return fail(c, http.StatusForbidden, ErrForbidden.Error())
			}
			c.Set("principal", p)
			return next(c)
		}
	}
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func projectParam(c echo.Context) types.ProjectID {
	return types.ProjectID(strings.TrimSpace(c.Param("projectId")))
}

func listTasks(svc task.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := svc.ListTasks(c.Request().Context(), projectParam(c))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, tasksResponse{Success: true, Tasks: encodeTasks(tasks)})
	}
}

func listSections(svc task.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		sections, err := svc.ListSections(c.Request().Context(), projectParam(c))
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, sectionsResponse{Success: true, Sections: encodeSections(sections)})
	}
}

func createTask(svc task.Service, logger *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body createBody
		if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
			return fail(c, http.StatusBadRequest, "invalid JSON body")
		}
		project := projectParam(c)
		if body.ProjectID != "" && types.ProjectID(body.ProjectID) != project {
			return fail(c, http.StatusBadRequest, "projectId does not match the path")
		}
		due, err := parseDueDate(body.DueDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}

		t, err := svc.CreateTask(c.Request().Context(), task.CreateTaskRequest{
			ProjectID:   project,
			Title:       body.Title,
			Description: body.Description,
			Status:      body.Status,
			SectionID:   types.SectionID(body.SectionID),
			Priority:    body.Priority,
			DueDate:     due,
			Assignees:   body.Assignees,
			Attachments: body.Attachments,
			Subtasks:    body.Subtasks,
			Order:       body.Order,
		})
		if err != nil {
			return failErr(c, err)
		}
		logger.Debug("task created over http", "task_id", t.ID, "request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return c.JSON(http.StatusCreated, taskResponse{Success: true, Task: encodeTask(t)})
	}
}

func updateTask(svc task.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodySize))
		if err != nil {
			return fail(c, http.StatusBadRequest, "unreadable body")
		}
		var body patchBody
		if err := sonic.Unmarshal(raw, &body); err != nil {
			return fail(c, http.StatusBadRequest, "invalid JSON body")
		}
		var fields map[string]any
		if err := sonic.Unmarshal(raw, &fields); err != nil {
			return fail(c, http.StatusBadRequest, "invalid JSON body")
		}

		req := task.UpdateTaskRequest{
			ProjectID:   projectParam(c),
			TaskID:      types.TaskID(body.TaskID),
			Title:       body.Title,
			Description: body.Description,
			Status:      body.Status,
			SectionID:   sectionOrEmpty(body.SectionID),
			Priority:    body.Priority,
			Assignees:   body.Assignees,
			Order:       body.Order,
		}
		if v, ok := fields["dueDate"]; ok {
			switch d := v.(type) {
			case nil:
				req.ClearDueDate = true
			case string:
				due, err := parseDueDate(d)
				if err != nil {
					return fail(c, http.StatusBadRequest, err.Error())
				}
				req.DueDate = due
				req.ClearDueDate = due == nil
			default:
				return fail(c, http.StatusBadRequest, "dueDate must be a string or null")
			}
		}

		t, err := svc.UpdateTask(c.Request().Context(), req)
		if err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, taskResponse{Success: true, Task: encodeTask(t)})
	}
}

func deleteTask(svc task.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := types.TaskID(strings.TrimSpace(c.QueryParam("taskId")))
		if err := svc.DeleteTask(c.Request().Context(), projectParam(c), id); err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, okResponse{Success: true})
	}
}

func saveOrder(svc task.Service, logger *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body []orderBody
		if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
			return fail(c, http.StatusBadRequest, "invalid JSON body")
		}
		entries := make([]task.OrderEntry, len(body))
		for i, b := range body {
			entries[i] = task.OrderEntry{TaskID: types.TaskID(b.TaskID), Order: b.Order, Lane: b.Lane}
		}
		if err := svc.SaveOrder(c.Request().Context(), entries); err != nil {
			return failErr(c, err)
		}
		logger.Debug("order saved over http", "entries", len(entries))
		return c.JSON(http.StatusOK, okResponse{Success: true})
	}
}

func upsertSection(svc task.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body sectionBody
		if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
			return fail(c, http.StatusBadRequest, "invalid JSON body")
		}
		section := models.Section{
			ID:    types.SectionID(body.ID),
			Name:  strings.TrimSpace(body.Name),
			Order: body.Order,
		}
		if body.DefaultStatus != "" {
			section.DefaultStatus = models.NormalizeStatus(string(models.UIStatus(body.DefaultStatus)))
		}
		if err := svc.UpsertSection(c.Request().Context(), projectParam(c), section); err != nil {
			return failErr(c, err)
		}
		return c.JSON(http.StatusOK, okResponse{Success: true})
	}
}
