package handler

import "github.com/gin-gonic/gin"

// callerID returns the resolved user id placed in the context by the
// identity middleware.
func callerID(c *gin.Context) string {
	return c.GetString("user_id")
}
