package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"satoshi-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const healthTimeout = 3 * time.Second

// HealthCheck pings every dependency concurrently. A failing critical
// dependency answers 503; a failing optional one only marks the
// service degraded.
func HealthCheck(critical, optional []ports.HealthChecker) gin.HandlerFunc {
	type depStatus struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		var (
			mu       sync.Mutex
			deps     = make(map[string]depStatus)
			critDown bool
			optDown  bool
		)
		check := func(hc ports.HealthChecker, isCritical bool) func() error {
			return func() error {
				err := hc.Ping(ctx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					deps[hc.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
					if isCritical {
						critDown = true
					} else {
						optDown = true
					}
					return nil
				}
				deps[hc.Name()] = depStatus{Status: "healthy"}
				return nil
			}
		}

		var g errgroup.Group
		for _, hc := range critical {
			g.Go(check(hc, true))
		}
		for _, hc := range optional {
			g.Go(check(hc, false))
		}
		_ = g.Wait()

		status, code := "healthy", http.StatusOK
		switch {
		case critDown:
			status, code = "unhealthy", http.StatusServiceUnavailable
		case optDown:
			status = "degraded"
		}

		c.JSON(code, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
