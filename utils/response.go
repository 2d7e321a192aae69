package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with a uniform error body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithFieldErrors is used for validation failures that can be pinned to inputs.
func RespondWithFieldErrors(c *gin.Context, status int, message string, fields map[string]string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "fields": fields})
}

// RespondWithConflict carries a machine-readable code so clients can show a specific message.
func RespondWithConflict(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}
