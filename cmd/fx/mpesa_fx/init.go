package mpesa_fx

import (
	"log"

	"go.uber.org/fx"
	"mirage/internal/config"
	"mirage/internal/services"
)

var Module = fx.Provide(provideMpesaGateway)

func provideMpesaGateway(cfg *config.Config) services.MpesaGateway {
	if cfg.Mpesa.ConsumerKey == "" || cfg.Mpesa.ConsumerSecret == "" {
		log.Println("CONSUMER_KEY/CONSUMER_SECRET not set, token requests will fail")
	}
	return services.NewMpesaClient(services.MpesaClientConfig{
		BaseURL:        cfg.Mpesa.BaseURL,
		ConsumerKey:    cfg.Mpesa.ConsumerKey,
		ConsumerSecret: cfg.Mpesa.ConsumerSecret,
	}, nil)
}
