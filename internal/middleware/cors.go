package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// OriginPolicy decides which browser origins may call the API and open sockets.
// A "*" entry allows every origin; requests without an Origin header are
// always allowed.
type OriginPolicy struct {
	allowed map[string]struct{}
	any     bool
}

func NewOriginPolicy(origins []string) *OriginPolicy {
	cleaned := lo.Compact(lo.Map(origins, func(o string, _ int) string {
		return strings.TrimRight(strings.TrimSpace(o), "/")
	}))
	return &OriginPolicy{
		allowed: lo.SliceToMap(cleaned, func(o string) (string, struct{}) {
			return strings.ToLower(o), struct{}{}
		}),
		any: lo.Contains(cleaned, "*"),
	}
}

func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" || p.any {
		return true
	}
	_, ok := p.allowed[strings.ToLower(strings.TrimRight(origin, "/"))]
	return ok
}

// CheckOrigin has the signature websocket.Upgrader expects.
func (p *OriginPolicy) CheckOrigin(r *http.Request) bool {
	return p.Allowed(r.Header.Get("Origin"))
}

func CORS(policy *OriginPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && policy.Allowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Origin, Cache-Control, X-Requested-With")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			if origin != "" && !policy.Allowed(origin) {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
