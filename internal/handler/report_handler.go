package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/service/project"
	"github.com/bayraktare/pmt/pkg/logger"
	"github.com/bayraktare/pmt/pkg/rbac"
)

type ReportHandler struct {
	svc      *project.Service
	partners []string
	logger   *zap.Logger
}

func NewReportHandler(svc *project.Service, partners []string, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, partners: partners, logger: logger}
}

func (h *ReportHandler) checkReport(r model.Report) error {
	if err := model.ValidateReport(r); err != nil {
		return err
	}
	return model.ValidateOrganization("partner", r.Partner, h.partners)
}

// ListReports GET /api/reports?status=&partner=
func (h *ReportHandler) ListReports(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	var f project.ReportFilter
	for _, s := range queryList(c, "status") {
		f.Statuses = append(f.Statuses, model.ReportStatus(s))
	}
	f.Partners = queryList(c, "partner")

	reports := h.svc.ListReports(u, f)
	log.Info("ListReports: success",
		zap.String("username", u.Username),
		zap.Int("report_count", len(reports)),
	)
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// GetReport GET /api/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	id := c.Param("id")
	r, err := h.svc.GetReport(u, id)
	if err != nil {
		respondError(c, log, "GetReport", err, zap.String("report_id", id))
		return
	}
	c.JSON(http.StatusOK, r)
}

type createReportRequest struct {
	Title                string             `json:"title"`
	Partner              string             `json:"partner"`
	SubmissionDate       model.Date         `json:"submission_date"`
	PeriodStart          model.Date         `json:"period_start"`
	PeriodEnd            model.Date         `json:"period_end"`
	ActivitiesCompleted  string             `json:"activities_completed"`
	ActivitiesInProgress string             `json:"activities_in_progress"`
	ActivitiesPlanned    string             `json:"activities_planned"`
	Issues               string             `json:"issues"`
	Status               model.ReportStatus `json:"status"`
}

// CreateReport POST /api/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, log, "CreateReport", err)
		return
	}
	log.Info("CreateReport request received",
		zap.String("username", u.Username),
		zap.String("partner", req.Partner),
		zap.String("title", req.Title),
	)

	if req.Partner == "" {
		req.Partner = u.Organization
	}
	if err := rbac.CheckOwnership(string(u.Role), u.Organization, req.Partner); err != nil {
		respondError(c, log, "CreateReport", err)
		return
	}

	today := h.svc.Today()
	r := model.Report{
		Title:                strings.TrimSpace(req.Title),
		Partner:              req.Partner,
		SubmissionDate:       req.SubmissionDate,
		PeriodStart:          req.PeriodStart,
		PeriodEnd:            req.PeriodEnd,
		ActivitiesCompleted:  req.ActivitiesCompleted,
		ActivitiesInProgress: req.ActivitiesInProgress,
		ActivitiesPlanned:    req.ActivitiesPlanned,
		Issues:               req.Issues,
		Status:               req.Status,
	}
	if r.SubmissionDate.IsZero() {
		r.SubmissionDate = today
	}
	if r.PeriodEnd.IsZero() {
		r.PeriodEnd = today
	}
	if r.PeriodStart.IsZero() {
		r.PeriodStart = r.PeriodEnd.AddDays(-14)
	}
	if r.Status == "" {
		r.Status = model.ReportDraft
	}
	if err := h.checkReport(r); err != nil {
		respondError(c, log, "CreateReport", err)
		return
	}

	id, err := h.svc.AddReport(c.Request.Context(), r)
	if err != nil {
		respondError(c, log, "CreateReport", err)
		return
	}
	r.ID = id

	log.Info("CreateReport: success", zap.String("report_id", id))
	c.JSON(http.StatusCreated, r)
}

// UpdateReport PATCH /api/reports/:id
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	id := c.Param("id")
	var patch model.ReportPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, log, "UpdateReport", err)
		return
	}
	log.Info("UpdateReport request received",
		zap.String("username", u.Username),
		zap.String("report_id", id),
	)

	if _, err := h.svc.GetReport(u, id); err != nil {
		respondError(c, log, "UpdateReport", err, zap.String("report_id", id))
		return
	}
	if patch.Partner != nil {
		if err := rbac.CheckOwnership(string(u.Role), u.Organization, *patch.Partner); err != nil {
			respondError(c, log, "UpdateReport", err, zap.String("report_id", id))
			return
		}
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	if err := h.svc.EditReport(c.Request.Context(), id, patch, h.checkReport); err != nil {
		respondError(c, log, "UpdateReport", err, zap.String("report_id", id))
		return
	}

	updated, err := h.svc.GetReport(u, id)
	if err != nil {
		respondError(c, log, "UpdateReport", err, zap.String("report_id", id))
		return
	}
	log.Info("UpdateReport: success", zap.String("report_id", id))
	c.JSON(http.StatusOK, updated)
}

// DeleteReport DELETE /api/reports/:id
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)
	id := c.Param("id")
	log.Info("DeleteReport request received", zap.String("report_id", id))

	if err := h.svc.DeleteReport(c.Request.Context(), id); err != nil {
		respondError(c, log, "DeleteReport", err, zap.String("report_id", id))
		return
	}

	log.Info("DeleteReport: success", zap.String("report_id", id))
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}
