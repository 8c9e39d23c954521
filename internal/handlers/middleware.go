package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "requestId"
	ctxSession      = "session"
)

// corsMiddleware lets a separately served UI reach the gateway.
func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	})
}

// requestIDMiddleware propagates or assigns X-Request-ID.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(headerRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(headerRequestID, id)
	c.Next()
}

// sessionMiddleware rejects requests while the console is logged out.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	sess := h.services.CurrentSession()
	if !sess.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": errNotLoggedIn,
		})
		return
	}
	c.Set(ctxSession, sess)
	c.Next()
}

// adminMiddleware must run after sessionMiddleware.
func (h *Handler) adminMiddleware(c *gin.Context) {
	if !h.services.CurrentSession().IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": errAdminOnly,
		})
		return
	}
	c.Next()
}
