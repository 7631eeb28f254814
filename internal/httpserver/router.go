package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/handler"
	"github.com/bayraktare/pmt/internal/service/auth"
	"github.com/bayraktare/pmt/pkg/config"
	"github.com/bayraktare/pmt/pkg/rbac"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Handlers struct {
	Auth   *handler.AuthHandler
	Meta   *handler.MetaHandler
	Task   *handler.TaskHandler
	Report *handler.ReportHandler
	Feed   *handler.FeedHandler
	Chart  *handler.ChartHandler
	Export *handler.ExportHandler
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	h Handlers,
	authService *auth.Service,
	corsCfg config.CORSConfig,
	checks map[string]ReadinessCheck,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(CORSMiddleware(corsCfg))
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware())

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": name + "_not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Public
	api.POST("/auth/login", h.Auth.Login)

	// Protected
	authed := api.Group("/")
	authed.Use(AuthMiddleware(authService, logger))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.GET("/auth/me", h.Auth.Me)
		authed.GET("/meta", h.Meta.Meta)

		authed.GET("/tasks", RequirePermission(rbac.PermissionReadTask), h.Task.ListTasks)
		authed.POST("/tasks", RequirePermission(rbac.PermissionCreateTask), h.Task.CreateTask)
		authed.GET("/tasks/:id", RequirePermission(rbac.PermissionReadTask), h.Task.GetTask)
		authed.PATCH("/tasks/:id", RequirePermission(rbac.PermissionUpdateTask), h.Task.UpdateTask)
		authed.DELETE("/tasks/:id", RequirePermission(rbac.PermissionDeleteTask), h.Task.DeleteTask)
		authed.POST("/tasks/:id/progress", RequirePermission(rbac.PermissionProgressTask), h.Task.UpdateProgress)
		authed.POST("/tasks/:id/comments", RequirePermission(rbac.PermissionCommentTask), h.Task.PostComment)

		authed.GET("/reports", RequirePermission(rbac.PermissionReadReport), h.Report.ListReports)
		authed.POST("/reports", RequirePermission(rbac.PermissionCreateReport), h.Report.CreateReport)
		authed.GET("/reports/:id", RequirePermission(rbac.PermissionReadReport), h.Report.GetReport)
		authed.PATCH("/reports/:id", RequirePermission(rbac.PermissionUpdateReport), h.Report.UpdateReport)
		authed.DELETE("/reports/:id", RequirePermission(rbac.PermissionDeleteReport), h.Report.DeleteReport)

		authed.GET("/notifications", RequirePermission(rbac.PermissionReadNotification), h.Feed.ListNotifications)
		authed.GET("/documents", RequirePermission(rbac.PermissionReadDocument), h.Feed.ListDocuments)

		charts := authed.Group("/charts", RequirePermission(rbac.PermissionReadChart))
		charts.GET("/dashboard", h.Chart.Dashboard)
		charts.GET("/gantt", h.Chart.Gantt)
		charts.GET("/timeline", h.Chart.Timeline)
		charts.GET("/partners", h.Chart.Partners)
		charts.GET("/reports", h.Chart.Reports)

		authed.GET("/export", RequirePermission(rbac.PermissionExportData), h.Export.Export)
		authed.POST("/import", RequirePermission(rbac.PermissionImportData), h.Export.Import)
	}

	return &Router{Engine: r}
}

// Server wraps the engine in an http.Server so callers can shut it down.
func (r *Router) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
