package notifier_fx

import (
	"log"

	"go.uber.org/fx"
	"mirage/internal/config"
	"mirage/internal/infra"
	"mirage/internal/services"
)

var Module = fx.Provide(provideSeatNotifier)

func provideSeatNotifier(cfg *config.Config) (services.SeatNotifier, error) {
	if !cfg.PubNub.Enabled() {
		log.Println("PubNub keys not set, seat updates will not be broadcast")
		return services.NewNoopSeatNotifier(), nil
	}
	pn, err := infra.InitPubNub(cfg.PubNub.PublishKey, cfg.PubNub.SubscribeKey, cfg.PubNub.SecretKey)
	if err != nil {
		return nil, err
	}
	return services.NewPubNubSeatNotifier(pn, cfg.PubNub.SeatsChannel), nil
}
