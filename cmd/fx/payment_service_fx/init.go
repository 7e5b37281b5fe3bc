package payment_service_fx

import (
	"log"

	"go.uber.org/fx"
	"mirage/internal/config"
	"mirage/internal/repositories"
	"mirage/internal/services"
)

var Module = fx.Provide(providePaymentService)

func providePaymentService(
	cfg *config.Config,
	store repositories.RecordStore,
	gateway services.MpesaGateway,
	mailer services.IMailService,
	throttle services.PushThrottle,
	notifier services.SeatNotifier,
) services.PaymentService {
	if cfg.Mpesa.CallbackURL == "" {
		log.Println("CALLBACK_URL not set, the gateway will reject pushes")
	}
	return services.NewPaymentService(store, gateway, mailer, throttle, notifier, services.PaymentConfig{
		Shortcode:             cfg.Mpesa.Shortcode,
		Passkey:               cfg.Mpesa.Passkey,
		CallbackURL:           cfg.Mpesa.CallbackURL,
		CallbackSecret:        cfg.Mpesa.CallbackSecret,
		AccountReference:      cfg.Mpesa.AccountReference,
		TransactionDesc:       cfg.Mpesa.TransactionDesc,
		RecordCallbackOutcome: cfg.RecordCallbackOutcome,
		ReleaseSeatsOnFailure: cfg.ReleaseSeatsOnFailure,
	})
}
