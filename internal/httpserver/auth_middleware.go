package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/handler"
	"github.com/bayraktare/pmt/internal/service/auth"
	"github.com/bayraktare/pmt/pkg/logger"
	"github.com/bayraktare/pmt/pkg/rbac"
	"github.com/bayraktare/pmt/pkg/util"
)

func AuthMiddleware(authService *auth.Service, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		u, claims, err := authService.Verify(c.Request.Context(), token)
		if err != nil {
			logger.WithTrace(c.Request.Context(), l).Warn("Token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		handler.SetSession(c, u, claims)
		c.Next()
	}
}

// RequirePermission 中间件：要求用户具有指定权限
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := handler.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if err := rbac.CheckPermission(string(u.Role), permission); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Next()
	}
}
