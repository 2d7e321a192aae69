package config

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequestThreshold = 200 * time.Millisecond

func PerformanceLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		}
		if userID, ok := c.Get("userId"); ok {
			fields = append(fields, zap.Any("user_id", userID))
		}

		if latency > slowRequestThreshold {
			log.Warn("slow request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}
