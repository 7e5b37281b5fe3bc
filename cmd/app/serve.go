package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"mirage/cmd/fx/config_fx"
	"mirage/cmd/fx/controllers_fx"
	"mirage/cmd/fx/db_fx"
	"mirage/cmd/fx/mail_fx"
	"mirage/cmd/fx/memcache_fx"
	"mirage/cmd/fx/mpesa_fx"
	"mirage/cmd/fx/notifier_fx"
	"mirage/cmd/fx/payment_service_fx"
	"mirage/cmd/fx/seats_fx"
	"mirage/cmd/fx/server_fx"
	"mirage/cmd/fx/throttle_fx"
)

func newApp() *fx.App {
	return fx.New(
		config_fx.Module,
		db_fx.Module,
		mpesa_fx.Module,
		mail_fx.Module,
		memcache_fx.Module,
		throttle_fx.Module,
		notifier_fx.Module,
		payment_service_fx.Module,
		seats_fx.Module,
		controllers_fx.Module,
		server_fx.Module,
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp()
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}
