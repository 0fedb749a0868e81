package handlers

import "github.com/gin-gonic/gin"

// currentUserID reads the id set by the session middleware; handlers reached
// through the protected group can rely on it being present.
func currentUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
