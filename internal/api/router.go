package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"mirage/internal/api/controllers"
	"mirage/pkg/middleware"
)

type RouterConfig struct {
	CORSAllowedOrigins string
	CallbackSecret     string
	EnableMetrics      bool
}

func NewRouter(
	cfg RouterConfig,
	paymentController *controllers.PaymentController,
	seatController *controllers.SeatController) *gin.Engine {

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	RegisterRoutes(r, cfg, paymentController, seatController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg RouterConfig,
	paymentController *controllers.PaymentController,
	seatController *controllers.SeatController) {

	apiGroup := r.Group("/api")
	apiGroup.POST("/stkpush", paymentController.StkPush)
	apiGroup.POST("/callback", middleware.CallbackTokenMiddleware(cfg.CallbackSecret), paymentController.Callback)
	apiGroup.GET("/payment-status/:checkoutRequestID", paymentController.PaymentStatus)

	r.GET("/seats-status", seatController.SeatStatus)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
