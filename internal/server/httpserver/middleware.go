package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/server/access"
	"github.com/dmitrijs2005/funrun/internal/server/auth"
	"github.com/dmitrijs2005/funrun/internal/server/models"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

func (s *Server) recovery(c *gin.Context) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(c.Request.Context(), "panic in handler", "panic", p, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}()
	c.Next()
}

// observe logs every request and records its metrics. Unmatched paths share
// one route label.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	elapsed := time.Since(start)

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()

	s.metrics.RecordRequest(c.Request.Method, route, status, elapsed)
	s.logger.Info(c.Request.Context(), "request served",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"route", route,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"client_ip", c.ClientIP(),
	)
}

// gate runs the access policy. Denied requests get a 307 redirect and never
// reach a handler.
func (s *Server) gate(c *gin.Context) {
	d := s.policy.Evaluate(c.Request.URL.Path, func() (models.Role, bool) {
		claims, ok := s.session(c)
		if !ok {
			return "", false
		}
		return claims.Role, true
	})
	s.metrics.RecordAccessDecision(string(d.Outcome))

	if d.Outcome != access.Allow {
		c.Redirect(http.StatusTemporaryRedirect, d.Location)
		c.Abort()
		return
	}
	c.Next()
}

// sessionToken reads the session cookie, falling back to a bearer token.
func sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(common.SessionCookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, common.BearerPrefix) {
		return strings.TrimPrefix(h, common.BearerPrefix)
	}
	return ""
}

// session returns the verified claims of the request, parsing them at most
// once per request.
func (s *Server) session(c *gin.Context) (*auth.SessionClaims, bool) {
	if v, ok := c.Get(sessionKey); ok {
		claims, _ := v.(*auth.SessionClaims)
		return claims, claims != nil
	}

	var claims *auth.SessionClaims
	if tok := sessionToken(c); tok != "" {
		parsed, err := s.auth.ParseSession(tok)
		if err == nil {
			claims = parsed
		} else {
			s.logger.Debug(c.Request.Context(), "session rejected", "error", err)
		}
	}

	c.Set(sessionKey, claims)
	return claims, claims != nil
}
