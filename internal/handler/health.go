package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health probes Postgres and Redis and reports per-dependency status.
// Degraded dependencies flip the HTTP status to 503 so load balancers can
// pull the instance; the payload never exposes DSNs or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		pgStatus := "up"
		if db == nil {
			pgStatus = "down"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			pgStatus = "down"
		}

		redisStatus := "up"
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "down"
		}

		status := http.StatusOK
		if pgStatus != "up" || redisStatus != "up" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"service":  "rumbo",
			"ok":       status == http.StatusOK,
			"postgres": pgStatus,
			"redis":    redisStatus,
		})
	}
}
