package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/pkg/util"
)

const (
	ctxUserKey   = "user"
	ctxClaimsKey = "claims"
)

// SetSession stores the authenticated user on the request context.
func SetSession(c *gin.Context, u model.User, claims *util.Claims) {
	c.Set(ctxUserKey, u)
	c.Set(ctxClaimsKey, claims)
}

// CurrentUser returns the user set by the auth middleware.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return model.User{}, false
	}
	u, ok := v.(model.User)
	return u, ok
}

func currentClaims(c *gin.Context) *util.Claims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*util.Claims)
	return claims
}

// queryList collects repeated and comma separated values of a query key.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
