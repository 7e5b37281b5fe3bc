package server_fx

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"mirage/internal/api"
	"mirage/internal/api/controllers"
	"mirage/internal/config"
)

var Module = fx.Options(
	fx.Provide(provideRouter),
	fx.Invoke(startServer),
)

func provideRouter(
	cfg *config.Config,
	paymentController *controllers.PaymentController,
	seatController *controllers.SeatController) *gin.Engine {

	return api.NewRouter(api.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CallbackSecret:     cfg.Mpesa.CallbackSecret,
		EnableMetrics:      cfg.EnableMetrics,
	}, paymentController, seatController)
}

func startServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
