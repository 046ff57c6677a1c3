package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/gin-gonic/gin"
)

// errorTable maps sentinel errors to their HTTP status and client message.
// The first match wins.
var errorTable = []struct {
	err     error
	status  int
	message string
}{
	{common.ErrMissingFields, http.StatusBadRequest, "Missing required fields"},
	{common.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{common.ErrDuplicateEmail, http.StatusConflict, "User with this email already exists"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{common.ErrNoTokenOnFile, http.StatusBadRequest, "No reset token found or token expired"},
	{common.ErrTokenExpired, http.StatusBadRequest, "Token has expired"},
	{common.ErrTokenMismatch, http.StatusBadRequest, "Invalid token"},
	{common.ErrMailDelivery, http.StatusInternalServerError, "Error sending email"},
	{common.ErrUnknownCollection, http.StatusNotFound, "Collection not found"},
	{common.ErrorNotFound, http.StatusNotFound, "Not found"},
}

// statusFor resolves err through errorTable. ok is false for errors the
// table does not know.
func statusFor(err error) (status int, message string, ok bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.message, true
		}
	}
	return http.StatusInternalServerError, "", false
}

// fail writes the error response. Unknown errors are logged and reported as
// a 500 carrying fallback.
func (s *Server) fail(c *gin.Context, err error, fallback string) {
	status, message, ok := statusFor(err)
	if !ok {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		message = fallback
	}
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
