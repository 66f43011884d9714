package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// New returns a CORS middleware honouring a list of allowed origins. Entries of
// the form "https://*.example.app" match any single subdomain of example.app.
func New(allowedOrigins []string) gin.HandlerFunc {
	policy := newPolicy(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if policy.allows(origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		} else if policy.allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type policy struct {
	allowAll bool
	exact    map[string]struct{}
	// scheme + "://" and the suffix following "*"
	wildcards [][2]string
}

func newPolicy(allowedOrigins []string) policy {
	p := policy{allowAll: len(allowedOrigins) == 0, exact: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(origin, "/")
		if origin == "*" {
			p.allowAll = true
			continue
		}
		if idx := strings.Index(origin, "://*."); idx >= 0 {
			p.wildcards = append(p.wildcards, [2]string{origin[:idx+3], origin[idx+4:]})
			continue
		}
		p.exact[origin] = struct{}{}
	}
	return p
}

func (p policy) allows(origin string) bool {
	if p.allowAll {
		return true
	}
	origin = strings.TrimRight(origin, "/")
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, w := range p.wildcards {
		if !strings.HasPrefix(origin, w[0]) || !strings.HasSuffix(origin, w[1]) {
			continue
		}
		sub := strings.TrimSuffix(strings.TrimPrefix(origin, w[0]), w[1])
		if sub != "" && !strings.Contains(sub, ".") {
			return true
		}
	}
	return false
}
