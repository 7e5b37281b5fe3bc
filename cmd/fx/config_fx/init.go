package config_fx

import (
	"go.uber.org/fx"
	"mirage/internal/config"
)

var Module = fx.Provide(config.LoadConfig)
