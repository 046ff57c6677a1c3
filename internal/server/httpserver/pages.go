package httpserver

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/funrun/internal/server/services"
	"github.com/gin-gonic/gin"
)

// pageParam parses a positive integer query value, falling back to def.
func pageParam(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (s *Server) listCollection(c *gin.Context) {
	name := c.Param("name")

	page, err := s.collections.List(c.Request.Context(), name,
		pageParam(c, "page", services.DefaultPage),
		pageParam(c, "limit", services.DefaultLimit))
	if err != nil {
		s.fail(c, err, "Failed to fetch "+name)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) home(c *gin.Context) {
	resp := gin.H{"name": "STI Surigao Fun Run"}
	if claims, ok := s.session(c); ok {
		resp["user"] = userOf(claims)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// The pages below sit behind the gate, so a session is always present.

func (s *Server) dashboard(c *gin.Context) {
	claims, _ := s.session(c)
	c.JSON(http.StatusOK, gin.H{"user": userOf(claims), "role": claims.Role})
}

func (s *Server) profile(c *gin.Context) {
	claims, _ := s.session(c)

	u, err := s.auth.CurrentUser(c.Request.Context(), claims.ID)
	if err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (s *Server) adminPage(c *gin.Context) {
	claims, _ := s.session(c)

	counts, err := s.collections.Counts(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userOf(claims), "collections": counts})
}

func (s *Server) sectionPage(c *gin.Context, section, collection string) {
	claims, _ := s.session(c)

	page, err := s.collections.List(c.Request.Context(), collection, services.DefaultPage, services.DefaultLimit)
	if err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userOf(claims), "section": section, collection: page.Data})
}

func (s *Server) runnerPage(c *gin.Context) {
	s.sectionPage(c, "runner", "events")
}

func (s *Server) marshalPage(c *gin.Context) {
	s.sectionPage(c, "marshal", "participants")
}
