package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/service/project"
)

// MetaHandler serves the static vocabularies the frontend builds forms from.
type MetaHandler struct {
	projectName string
	lead        string
	partners    []string
}

func NewMetaHandler(projectName, lead string, partners []string) *MetaHandler {
	return &MetaHandler{projectName: projectName, lead: lead, partners: partners}
}

// Meta GET /api/meta
func (h *MetaHandler) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"project":           h.projectName,
		"lead_organization": h.lead,
		"partners":          h.partners,
		"categories":        model.Categories,
		"task_statuses":     model.TaskStatuses,
		"priorities":        model.Priorities,
		"report_statuses":   model.ReportStatuses,
		"sort_fields":       project.SortFields,
	})
}
