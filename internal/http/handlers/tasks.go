package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type TaskService interface {
	List(ctx context.Context, ownerID string) ([]task.Task, error)
	Create(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error)
	Get(ctx context.Context, ownerID, id string) (task.Task, error)
	Update(ctx context.Context, ownerID, id string, req task.UpdateTaskRequest) (task.Task, error)
	Delete(ctx context.Context, ownerID, id string) (task.Task, error)
}

type TasksHandler struct {
	tasks TaskService
}

func NewTasksHandler(tasks TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

const storeTimeout = 3 * time.Second

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	ownerID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	items, err := h.tasks.List(cctx, ownerID)
	if err != nil {
		RespondServiceError(ctx, err, "Could not list tasks")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	ownerID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	t, err := h.tasks.Create(cctx, ownerID, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not create task")
		return
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) GetTask(ctx *gin.Context) {
	ownerID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	t, err := h.tasks.Get(cctx, ownerID, ctx.Param("id"))
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch task")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, t)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	var req task.UpdateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	ownerID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	t, err := h.tasks.Update(cctx, ownerID, ctx.Param("id"), req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not update task")
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	ownerID, _ := middlewares.UserIDFromContext(ctx)

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	t, err := h.tasks.Delete(cctx, ownerID, ctx.Param("id"))
	if err != nil {
		RespondServiceError(ctx, err, "Could not delete task")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Task deleted successfully",
		"deletedTask": t,
	})
}
