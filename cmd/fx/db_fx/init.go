package db_fx

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/fx"
	"mirage/internal/config"
	"mirage/internal/infra"
	"mirage/internal/repositories"
)

var Module = fx.Provide(provideRecordStore)

func provideRecordStore(lc fx.Lifecycle, cfg *config.Config) (repositories.RecordStore, error) {
	store, err := OpenRecordStore(context.Background(), cfg.Store)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Printf("Closing %s record store", cfg.Store.Driver)
			return store.Close(ctx)
		},
	})
	return store, nil
}

// OpenRecordStore connects the configured backend and prepares its schema.
func OpenRecordStore(ctx context.Context, cfg config.StoreConfig) (repositories.RecordStore, error) {
	switch cfg.Driver {
	case "", "postgres":
		db, err := infra.InitPostgresql(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := repositories.AutoMigrate(db); err != nil {
			_ = infra.ClosePostgresql(db)
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		return repositories.NewRecordStore(db), nil

	case "mongo":
		client, err := infra.InitMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		cols := repositories.MongoCollections{
			Transactions: cfg.TransactionCollection,
			Seats:        cfg.SeatCollection,
		}
		if err := repositories.EnsureMongoIndexes(ctx, db, cols); err != nil {
			_ = infra.CloseMongo(context.Background(), client)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repositories.NewMongoRecordStore(db, cols), nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
}
