package seats_fx

import (
	"go.uber.org/fx"
	"mirage/internal/services"
)

var Module = fx.Provide(services.NewSeatService)
