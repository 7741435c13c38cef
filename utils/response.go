// utils/response.go
package utils

import "github.com/gin-gonic/gin"

// RespondWithError aborts the request with a JSON error body. Specific
// reasons (conflicts, validation failures) are surfaced verbatim so the
// client can show them; nothing is hidden behind a blanket message.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
