package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/service/project"
	"github.com/bayraktare/pmt/pkg/logger"
)

// FeedHandler serves the read-only notification feed and document list.
type FeedHandler struct {
	svc    *project.Service
	logger *zap.Logger
}

func NewFeedHandler(svc *project.Service, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{svc: svc, logger: logger}
}

// ListNotifications GET /api/notifications
func (h *FeedHandler) ListNotifications(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	notifs := h.svc.NotificationsFor(u)
	unread := 0
	for _, n := range notifs {
		if !n.Read {
			unread++
		}
	}

	logger.WithTrace(c.Request.Context(), h.logger).Info("ListNotifications: success",
		zap.String("organization", u.Organization),
		zap.Int("count", len(notifs)),
	)
	c.JSON(http.StatusOK, gin.H{"notifications": notifs, "unread": unread})
}

// ListDocuments GET /api/documents
func (h *FeedHandler) ListDocuments(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	docs := h.svc.DocumentsFor(u)
	logger.WithTrace(c.Request.Context(), h.logger).Info("ListDocuments: success",
		zap.String("organization", u.Organization),
		zap.Int("count", len(docs)),
	)
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
