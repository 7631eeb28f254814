package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/service/export"
	"github.com/bayraktare/pmt/internal/service/project"
	"github.com/bayraktare/pmt/pkg/logger"
)

// maxImportBytes caps the body accepted by Import.
const maxImportBytes = 10 << 20

type ExportHandler struct {
	svc      *project.Service
	logger   *zap.Logger
	now      func() time.Time
	maxBytes int64
}

func NewExportHandler(svc *project.Service, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger, now: time.Now, maxBytes: maxImportBytes}
}

// Export GET /api/export?format=json|yaml
func (h *ExportHandler) Export(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, log, "Export", err)
		return
	}

	data, filename, err := export.Export(h.svc.Snapshot(), format, h.now())
	if err != nil {
		respondError(c, log, "Export", err)
		return
	}

	log.Info("Export: success",
		zap.String("format", string(format)),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
	)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), data)
}

// Import POST /api/import?format=json|yaml
func (h *ExportHandler) Import(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, log, "Import", err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("Import: body too large", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "import document too large"})
			return
		}
		badRequest(c, log, "Import", err)
		return
	}
	log.Info("Import request received",
		zap.String("format", string(format)),
		zap.Int("bytes", len(body)),
	)

	data, err := export.Import(body, format)
	if err != nil {
		respondError(c, log, "Import", err)
		return
	}
	h.svc.Restore(c.Request.Context(), data)

	c.JSON(http.StatusOK, gin.H{
		"status":        "imported",
		"tasks":         len(data.Tasks),
		"reports":       len(data.Reports),
		"users":         len(data.Users),
		"notifications": len(data.Notifications),
		"documents":     len(data.Documents),
	})
}
