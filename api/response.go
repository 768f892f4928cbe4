package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
)

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// storeError maps store failures onto HTTP statuses.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, journal.ErrInvalidTrade):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, journal.ErrDuplicate):
		fail(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return def, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return i, nil
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			log.Error("request failed", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
