package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"mirage/cmd/fx/db_fx"
	"mirage/internal/config"
	"mirage/internal/services"
)

var (
	seedFrom int
	seedTo   int
)

func seedSeatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-seats",
		Short: "Create seat records that do not exist yet",
		Long: `Create seats --from..--to (inclusive) as available. Existing seats keep
their status, so the command is safe to run again.

Examples:
  mirage seed-seats --from 1 --to 120`,
		RunE: runSeedSeats,
	}

	cmd.Flags().IntVar(&seedFrom, "from", 1, "first seat number")
	cmd.Flags().IntVar(&seedTo, "to", 100, "last seat number")

	return cmd
}

func runSeedSeats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.LoadConfig()

	store, err := db_fx.OpenRecordStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close(ctx)

	created, err := services.NewSeatService(store).SeedSeats(ctx, seedFrom, seedTo)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d new seats (%d..%d)\n", created, seedFrom, seedTo)
	return nil
}
