package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/service/project"
	"github.com/bayraktare/pmt/pkg/logger"
	"github.com/bayraktare/pmt/pkg/rbac"
)

type TaskHandler struct {
	svc      *project.Service
	partners []string
	logger   *zap.Logger
}

func NewTaskHandler(svc *project.Service, partners []string, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, partners: partners, logger: logger}
}

// checkTask validates a task and requires its assignee to be a configured
// partner.
func (h *TaskHandler) checkTask(t model.Task) error {
	if err := model.ValidateTask(t); err != nil {
		return err
	}
	return model.ValidateOrganization("assigned_to", t.AssignedTo, h.partners)
}

// parseTaskQuery reads ?status=&category=&partner=&sort=&order= .
func parseTaskQuery(c *gin.Context) (project.TaskFilter, project.TaskSort, error) {
	var f project.TaskFilter
	for _, s := range queryList(c, "status") {
		f.Statuses = append(f.Statuses, model.TaskStatus(s))
	}
	f.Categories = queryList(c, "category")
	f.Partners = queryList(c, "partner")

	srt := project.TaskSort{
		Field:     project.SortField(c.Query("sort")),
		Ascending: !strings.EqualFold(c.Query("order"), "desc"),
	}
	if srt.Field != "" && !slices.Contains(project.SortFields, srt.Field) {
		return f, srt, &model.ValidationError{Field: "sort", Reason: "unknown sort field"}
	}
	return f, srt, nil
}

// ListTasks GET /api/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}
	log.Info("ListTasks request received",
		zap.String("username", u.Username),
		zap.String("query", c.Request.URL.RawQuery),
	)

	f, srt, err := parseTaskQuery(c)
	if err != nil {
		respondError(c, log, "ListTasks", err)
		return
	}

	tasks := h.svc.ListTasks(u, f, srt)
	log.Info("ListTasks: success",
		zap.String("username", u.Username),
		zap.Int("task_count", len(tasks)),
	)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	id := c.Param("id")
	t, err := h.svc.GetTask(u, id)
	if err != nil {
		respondError(c, log, "GetTask", err, zap.String("task_id", id))
		return
	}
	c.JSON(http.StatusOK, t)
}

type createTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	AssignedTo  string           `json:"assigned_to"`
	Category    string           `json:"category"`
	StartDate   model.Date       `json:"start_date"`
	EndDate     model.Date       `json:"end_date"`
	Status      model.TaskStatus `json:"status"`
	Progress    int              `json:"progress"`
	Priority    model.Priority   `json:"priority"`
}

// CreateTask POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, "CreateTask", err)
		return
	}
	log.Info("CreateTask request received",
		zap.String("username", u.Username),
		zap.String("assigned_to", req.AssignedTo),
		zap.String("title", req.Title),
	)

	if req.AssignedTo == "" && !u.IsAdmin() {
		req.AssignedTo = u.Organization
	}
	if err := rbac.CheckOwnership(string(u.Role), u.Organization, req.AssignedTo); err != nil {
		respondError(c, log, "CreateTask", err, zap.String("username", u.Username))
		return
	}

	t := model.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  u.Organization,
		Category:    req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		Progress:    req.Progress,
		Priority:    req.Priority,
	}
	if t.Status == "" {
		t.Status = model.StatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if err := h.checkTask(t); err != nil {
		respondError(c, log, "CreateTask", err)
		return
	}

	id, err := h.svc.AddTask(c.Request.Context(), t)
	if err != nil {
		respondError(c, log, "CreateTask", err)
		return
	}

	created, err := h.svc.GetTask(u, id)
	if err != nil {
		respondError(c, log, "CreateTask", err, zap.String("task_id", id))
		return
	}
	log.Info("CreateTask: success", zap.String("task_id", id))
	c.JSON(http.StatusCreated, created)
}

// UpdateTask PATCH /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	id := c.Param("id")
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, log, "UpdateTask", err)
		return
	}
	log.Info("UpdateTask request received",
		zap.String("username", u.Username),
		zap.String("task_id", id),
	)

	if _, err := h.svc.GetTask(u, id); err != nil {
		respondError(c, log, "UpdateTask", err, zap.String("task_id", id))
		return
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}

	if err := h.svc.EditTask(c.Request.Context(), id, patch, h.checkTask); err != nil {
		respondError(c, log, "UpdateTask", err, zap.String("task_id", id))
		return
	}

	updated, err := h.svc.GetTask(u, id)
	if err != nil {
		respondError(c, log, "UpdateTask", err, zap.String("task_id", id))
		return
	}
	log.Info("UpdateTask: success", zap.String("task_id", id))
	c.JSON(http.StatusOK, updated)
}

// DeleteTask DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	id := c.Param("id")
	log.Info("DeleteTask request received", zap.String("task_id", id))

	if err := h.svc.DeleteTask(c.Request.Context(), id); err != nil {
		respondError(c, log, "DeleteTask", err, zap.String("task_id", id))
		return
	}

	log.Info("DeleteTask: success", zap.String("task_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

type progressRequest struct {
	Progress *int             `json:"progress" binding:"required"`
	Status   model.TaskStatus `json:"status" binding:"required"`
	Note     string           `json:"note"`
}

// UpdateProgress POST /api/tasks/:id/progress
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	id := c.Param("id")
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, "UpdateProgress", err)
		return
	}
	log.Info("UpdateProgress request received",
		zap.String("username", u.Username),
		zap.String("task_id", id),
		zap.Int("progress", *req.Progress),
		zap.String("status", string(req.Status)),
	)

	current, err := h.svc.GetTask(u, id)
	if err != nil {
		respondError(c, log, "UpdateProgress", err, zap.String("task_id", id))
		return
	}
	if err := rbac.CheckOwnership(string(u.Role), u.Organization, current.AssignedTo); err != nil {
		respondError(c, log, "UpdateProgress", err, zap.String("task_id", id))
		return
	}
	if err := model.ValidateTaskPatch(current, model.TaskPatch{Progress: req.Progress, Status: &req.Status}); err != nil {
		respondError(c, log, "UpdateProgress", err, zap.String("task_id", id))
		return
	}

	note := strings.TrimSpace(req.Note)
	if err := h.svc.UpdateProgress(c.Request.Context(), id, *req.Progress, req.Status, note, u.Organization); err != nil {
		respondError(c, log, "UpdateProgress", err, zap.String("task_id", id))
		return
	}

	updated, err := h.svc.GetTask(u, id)
	if err != nil {
		respondError(c, log, "UpdateProgress", err, zap.String("task_id", id))
		return
	}
	log.Info("UpdateProgress: success", zap.String("task_id", id))
	c.JSON(http.StatusOK, updated)
}

type commentRequest struct {
	Text string `json:"text"`
}

// PostComment POST /api/tasks/:id/comments
func (h *TaskHandler) PostComment(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	id := c.Param("id")
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, "PostComment", err)
		return
	}
	log.Info("PostComment request received",
		zap.String("username", u.Username),
		zap.String("task_id", id),
	)

	if _, err := h.svc.GetTask(u, id); err != nil {
		respondError(c, log, "PostComment", err, zap.String("task_id", id))
		return
	}
	text := strings.TrimSpace(req.Text)
	if err := model.ValidateComment(text); err != nil {
		respondError(c, log, "PostComment", err, zap.String("task_id", id))
		return
	}

	if err := h.svc.PostComment(c.Request.Context(), id, u.Organization, text); err != nil {
		respondError(c, log, "PostComment", err, zap.String("task_id", id))
		return
	}

	updated, err := h.svc.GetTask(u, id)
	if err != nil {
		respondError(c, log, "PostComment", err, zap.String("task_id", id))
		return
	}
	log.Info("PostComment: success", zap.String("task_id", id))
	c.JSON(http.StatusCreated, updated)
}
