package api

import (
	"errors"
	"log"
	"net/http"

	"PortfolioSentinel/internal/portfolio"
	"PortfolioSentinel/internal/store"

	"github.com/gin-gonic/gin"
)

// Res is the body of every error response.
type Res struct {
	Success bool `json:"success"`
	Error   any  `json:"error"`
	Data    any  `json:"data"`
}

// Readiness reports whether startup state has been loaded.
type Readiness interface {
	Ready() bool
}

// Error turns the first error recorded by a handler into a JSON response.
// Client mistakes get a 4xx with a short message; everything else is logged
// and answered with a generic 500.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0]

		if err.IsType(gin.ErrorTypeBind) {
			abort(c, http.StatusBadRequest, "invalid request body")
			return
		}

		var cfgErr *portfolio.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			abort(c, http.StatusBadRequest, cfgErr.Error())
		case errors.Is(err, store.ErrNotFound):
			abort(c, http.StatusNotFound, store.ErrNotFound.Error())
		case errors.Is(err, store.ErrExists):
			abort(c, http.StatusConflict, store.ErrExists.Error())
		default:
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err.Err)
			abort(c, http.StatusInternalServerError, "internal server error")
		}
	}
}

// RequireReady answers 503 until r reports ready.
func RequireReady(r Readiness) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Ready() {
			abort(c, http.StatusServiceUnavailable, "not yet initialized")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Res{Success: false, Error: msg})
}
