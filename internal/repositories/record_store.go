package repositories

import (
	"context"

	"mirage/internal/models/db_models"
)

// RecordStore persists push attempts and seat state. Implementations are
// safe for concurrent use; concurrent writes are serialized by the database.
type RecordStore interface {
	InsertTransaction(ctx context.Context, txn *db_models.Transaction) error
	// SaveCheckout marks the still available seats among seatNumbers sold,
	// records them in txn.SeatsHeld and inserts txn. It returns the number
	// of seats held. An empty seatNumbers skips the seat update.
	SaveCheckout(ctx context.Context, txn *db_models.Transaction, seatNumbers []int) (int64, error)
	FindTransactionByCheckoutID(ctx context.Context, checkoutRequestID string) (*db_models.Transaction, error)
	// RecordOutcome moves a PENDING transaction to a terminal state. It
	// reports false when no pending record matched.
	RecordOutcome(ctx context.Context, checkoutRequestID string, outcome db_models.Outcome) (bool, error)

	MarkSeatsSold(ctx context.Context, seatNumbers []int) (int64, error)
	ReleaseSeats(ctx context.Context, seatNumbers []int) (int64, error)
	ListAllSeats(ctx context.Context) ([]db_models.Seat, error)
	SeedSeats(ctx context.Context, seatNumbers []int) (int64, error)

	Close(ctx context.Context) error
}
