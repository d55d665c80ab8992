package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/altibbe/transparency-api/internal/cache"
	"github.com/altibbe/transparency-api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the liveness endpoint.
type HealthHandler struct {
	db      *sqlx.DB
	redis   *cache.RedisClient
	aiModel string
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// cache is not configured.
func NewHealthHandler(db *sqlx.DB, redis *cache.RedisClient, aiModel string) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, aiModel: aiModel}
}

// GetHealth responds with database, cache and AI configuration status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "connected"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "connected"
		if err := h.redis.Ping(c.Request.Context()); err != nil {
			redisStatus = "disconnected"
		}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":   "healthy",
		"version":  "1.0.0",
		"uptime":   int(time.Since(startTime).Seconds()),
		"database": dbStatus,
		"redis":    redisStatus,
		"ai": gin.H{
			"model": h.aiModel,
		},
	})
}
