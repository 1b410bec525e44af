package tasks

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/errors"
	"codeberg.org/taskflow/server/taskflow/tasks"
	"github.com/gin-gonic/gin"
)

// ListTasksHandler godoc
// @Summary List tasks
// @Description Lists the caller's tasks, newest first
// @Tags tasks
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, in_progress, completed)
// @Param priority query string false "Filter by priority" Enums(low, medium, high)
// @Success 200 {array} tasks.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/tasks [get]
// @Security BearerAuth
func ListTasksHandler(service *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var query ListQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			errors.ValidationError(c, err)
			return
		}

		list, err := service.List(c.Request.Context(), userID, tasks.ListFilter{
			Status:   query.Status,
			Priority: query.Priority,
		})
		if err != nil {
			respondTaskError(c, "failed to list tasks", err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// CreateTaskHandler godoc
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body tasks.CreateTaskRequest true "Task"
// @Success 201 {object} tasks.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/tasks [post]
// @Security BearerAuth
func CreateTaskHandler(service *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req tasks.CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		task, err := service.Create(c.Request.Context(), userID, req)
		if err != nil {
			respondTaskError(c, "failed to create task", err)
			return
		}

		c.JSON(http.StatusCreated, task)
	}
}

// GetTaskHandler godoc
// @Summary Get task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} tasks.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/tasks/{id} [get]
// @Security BearerAuth
func GetTaskHandler(service *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		taskID, ok := errors.ValidatePathUUID(c, "id", "task")
		if !ok {
			return
		}

		task, err := service.Get(c.Request.Context(), userID, taskID)
		if err != nil {
			respondTaskError(c, "failed to get task", err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

// UpdateTaskHandler godoc
// @Summary Update task
// @Description Partial update, omitted fields are left unchanged and a null due_date clears it
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body tasks.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} tasks.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/tasks/{id} [put]
// @Security BearerAuth
func UpdateTaskHandler(service *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		taskID, ok := errors.ValidatePathUUID(c, "id", "task")
		if !ok {
			return
		}

		var req tasks.UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		task, err := service.Update(c.Request.Context(), userID, taskID, req)
		if err != nil {
			respondTaskError(c, "failed to update task", err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

// UpdateStatusHandler godoc
// @Summary Change task status
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body tasks.UpdateStatusRequest true "New status"
// @Success 200 {object} tasks.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/tasks/{id}/status [patch]
// @Security BearerAuth
func UpdateStatusHandler(service *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		taskID, ok := errors.ValidatePathUUID(c, "id", "task")
		if !ok {
			return
		}

		var req tasks.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		task, err := service.UpdateStatus(c.Request.Context(), userID, taskID, req.Status)
		if err != nil {
			respondTaskError(c, "failed to update task status", err)
			return
		}

		c.JSON(http.StatusOK, task)
	}
}

// DeleteTaskHandler godoc
// @Summary Delete task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/tasks/{id} [delete]
// @Security BearerAuth
func DeleteTaskHandler(service *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		taskID, ok := errors.ValidatePathUUID(c, "id", "task")
		if !ok {
			return
		}

		if err := service.Delete(c.Request.Context(), userID, taskID); err != nil {
			respondTaskError(c, "failed to delete task", err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// StatsHandler godoc
// @Summary Task statistics
// @Description Counters over the caller's tasks
// @Tags tasks
// @Produce json
// @Success 200 {object} tasks.Stats
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/stats [get]
// @Security BearerAuth
func StatsHandler(service *tasks.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		stats, err := service.Stats(c.Request.Context(), userID)
		if err != nil {
			respondTaskError(c, "failed to load stats", err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// tasks owned by someone else are reported as missing
func respondTaskError(c *gin.Context, message string, err error) {
	switch {
	case stderrors.Is(err, tasks.ErrTaskNotFound):
		errors.NotFound(c, "task")
	case stderrors.Is(err, tasks.ErrTitleRequired),
		stderrors.Is(err, tasks.ErrTitleTooLong),
		stderrors.Is(err, tasks.ErrInvalidStatus),
		stderrors.Is(err, tasks.ErrInvalidPriority):
		errors.ValidationError(c, err)
	default:
		errors.InternalError(c, message, err)
	}
}
