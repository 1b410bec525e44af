package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	serviceName = "taskflow"
	version     = "1.0.0"

	pingTimeout = 2 * time.Second
)

// reports whether the backing store answers
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler godoc
// @Summary Health check
// @Description Reports server and store health
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := store.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, Response{
				Status:  "unhealthy",
				Service: serviceName,
				Version: version,
				Store:   "unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
			Store:   "ok",
		})
	}
}
