package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP routes. Routes that serve sync timestamps stay
// behind the readiness gate.
func NewRouter(svc Service, ready Readiness) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(Error())

	hd := NewHandler(svc)
	r.GET("/health", hd.Health)

	r.POST("/stonks", hd.AddHolding)
	r.DELETE("/stonks/:symbol", hd.DeleteHolding)
	r.GET("/stonks/:symbol/metrics", hd.GetDetails)

	gated := r.Group("/", RequireReady(ready))
	{
		gated.GET("/stonks", hd.GetHoldings)
		gated.GET("/stonkcandles", hd.GetCandles)
	}
	return r
}
