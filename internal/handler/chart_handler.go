package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/service/chart"
	"github.com/bayraktare/pmt/internal/service/project"
	"github.com/bayraktare/pmt/pkg/logger"
)

type ChartHandler struct {
	svc      *project.Service
	partners []string
	logger   *zap.Logger
}

func NewChartHandler(svc *project.Service, partners []string, logger *zap.Logger) *ChartHandler {
	return &ChartHandler{svc: svc, partners: partners, logger: logger}
}

// Dashboard GET /api/charts/dashboard
func (h *ChartHandler) Dashboard(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	tasks := h.svc.TasksFor(u)
	reports := h.svc.ReportsFor(u)
	d := chart.BuildDashboard(u, h.partners, tasks, reports, h.svc.Today())

	logger.WithTrace(c.Request.Context(), h.logger).Info("Dashboard: success",
		zap.String("username", u.Username),
		zap.Int("task_count", len(tasks)),
		zap.Int("report_count", len(reports)),
	)
	c.JSON(http.StatusOK, d)
}

// filteredTasks applies the task list query string to the visible tasks.
func (h *ChartHandler) filteredTasks(c *gin.Context, op string) ([]model.Task, bool) {
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return nil, false
	}
	f, srt, err := parseTaskQuery(c)
	if err != nil {
		respondError(c, logger.WithTrace(c.Request.Context(), h.logger), op, err)
		return nil, false
	}
	return h.svc.ListTasks(u, f, srt), true
}

// Gantt GET /api/charts/gantt
func (h *ChartHandler) Gantt(c *gin.Context) {
	tasks, ok := h.filteredTasks(c, "Gantt")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"bars": chart.Gantt(tasks)})
}

// Timeline GET /api/charts/timeline
func (h *ChartHandler) Timeline(c *gin.Context) {
	tasks, ok := h.filteredTasks(c, "Timeline")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, chart.BuildTimeline(tasks))
}

// Partners GET /api/charts/partners
func (h *ChartHandler) Partners(c *gin.Context) {
	tasks, ok := h.filteredTasks(c, "Partners")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"partners":   chart.PartnerDistribution(h.partners, tasks),
		"status":     chart.StatusDistribution(tasks),
		"categories": chart.CountByCategory(tasks),
		"priorities": chart.CountByPriority(tasks),
	})
}

// Reports GET /api/charts/reports
func (h *ChartHandler) Reports(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	colors := make(map[model.ReportStatus]string, len(model.ReportStatuses))
	for _, s := range model.ReportStatuses {
		colors[s] = chart.ReportStatusColor(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"partners": chart.ReportSubmission(h.partners, h.svc.ReportsFor(u)),
		"colors":   colors,
	})
}
