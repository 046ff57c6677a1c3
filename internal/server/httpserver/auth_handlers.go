package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/server/auth"
	"github.com/dmitrijs2005/funrun/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	PhoneNumber *string `json:"phoneNumber"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func userOf(c *auth.SessionClaims) sessionUser {
	return sessionUser{ID: c.ID, Name: c.Name, Email: c.Email, Role: string(c.Role)}
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	u, err := s.auth.RegisterUser(c.Request.Context(), services.Registration{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
	})
	s.metrics.RecordAuthEvent("register", result(err))
	if err != nil {
		s.fail(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": "User registered successfully", "userId": u.ID})
}

func (s *Server) checkEmail(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if req.Email == "" {
		badRequest(c, "Email is required")
		return
	}

	exists, err := s.auth.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req emailRequest
	if !bind(c, &req) {
		return
	}
	if req.Email == "" {
		badRequest(c, "Email is required")
		return
	}

	err := s.auth.IssuePasswordResetToken(c.Request.Context(), req.Email)
	s.metrics.RecordAuthEvent("reset_request", result(err))
	if err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) verifyResetToken(c *gin.Context) {
	var req resetRequest
	if !bind(c, &req) {
		return
	}
	if req.Token == "" || req.Email == "" {
		badRequest(c, "Token and email are required")
		return
	}

	if err := s.auth.VerifyPasswordResetToken(c.Request.Context(), req.Email, req.Token); err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetRequest
	if !bind(c, &req) {
		return
	}
	if req.Token == "" || req.Email == "" || req.Password == "" {
		badRequest(c, "All fields are required")
		return
	}

	err := s.auth.ResetPassword(c.Request.Context(), req.Email, req.Token, req.Password)
	s.metrics.RecordAuthEvent("reset", result(err))
	if err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, value, maxAge, "/", "", s.opts.SecureCookies, true)
}

func (s *Server) login(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}

	sess, err := s.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	s.metrics.RecordAuthEvent("login", result(err))
	if err != nil {
		s.fail(c, err, "Internal server error")
		return
	}

	s.setSessionCookie(c, sess.Token, int(s.opts.SessionValidity/time.Second))
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userOf(&sess.Claims)})
}

func (s *Server) logout(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// sessionInfo reports the current session, or an empty object without one.
func (s *Server) sessionInfo(c *gin.Context) {
	claims, ok := s.session(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	resp := gin.H{"user": userOf(claims)}
	if claims.ExpiresAt != nil {
		resp["expires"] = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
