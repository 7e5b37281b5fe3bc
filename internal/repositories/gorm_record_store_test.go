package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"mirage/internal/models/db_models"
	"mirage/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newPendingTxn(checkoutID string) *db_models.Transaction {
	return &db_models.Transaction{
		Name:              "A",
		Email:             "a@x.com",
		Phone:             "254700000000",
		Amount:            decimal.NewFromInt(500),
		TicketType:        "vip",
		TotalQuantity:     1,
		Seats:             "12",
		CheckoutRequestID: checkoutID,
		Timestamp:         "20240101120000",
		Status:            db_models.TxnStatusPending,
	}
}

func seatMap(t *testing.T, store RecordStore) map[int]db_models.SeatStatus {
	t.Helper()
	seats, err := store.ListAllSeats(context.Background())
	require.NoError(t, err)
	out := make(map[int]db_models.SeatStatus, len(seats))
	for _, s := range seats {
		out[s.SeatNumber] = s.Status
	}
	return out
}

func TestGormRecordStore_InsertAndFind(t *testing.T) {
	store := NewRecordStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.InsertTransaction(ctx, newPendingTxn("CR1")))

	got, err := store.FindTransactionByCheckoutID(ctx, "CR1")
	require.NoError(t, err)
	assert.Equal(t, "254700000000", got.Phone)
	assert.Equal(t, db_models.TxnStatusPending, got.Status)
	assert.True(t, decimal.NewFromInt(500).Equal(got.Amount))
	assert.NotEqual(t, "", got.ID.String())

	_, err = store.FindTransactionByCheckoutID(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrTransactionNotFound)
}

func TestGormRecordStore_SeedAndMarkSeatsSold(t *testing.T) {
	store := NewRecordStore(newTestDB(t))
	ctx := context.Background()

	n, err := store.SeedSeats(ctx, []int{10, 11, 12})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = store.SeedSeats(ctx, []int{12, 13})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "existing seats are left alone")

	n, err = store.MarkSeatsSold(ctx, []int{11, 12, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, map[int]db_models.SeatStatus{
		10: db_models.SeatAvailable,
		11: db_models.SeatSold,
		12: db_models.SeatSold,
		13: db_models.SeatAvailable,
	}, seatMap(t, store))

	n, err = store.ReleaseSeats(ctx, []int{12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, db_models.SeatAvailable, seatMap(t, store)[12])
}

func TestGormRecordStore_SaveCheckoutIsAtomic(t *testing.T) {
	store := NewRecordStore(newTestDB(t))
	ctx := context.Background()
	_, err := store.SeedSeats(ctx, []int{12})
	require.NoError(t, err)

	sold, err := store.SaveCheckout(ctx, newPendingTxn("CR1"), []int{12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sold)
	assert.Equal(t, db_models.SeatSold, seatMap(t, store)[12])

	// A duplicate correlation key fails the insert; the seat update in the
	// same call must not be applied.
	_, err = store.ReleaseSeats(ctx, []int{12})
	require.NoError(t, err)
	_, err = store.SaveCheckout(ctx, newPendingTxn("CR1"), []int{12})
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
	assert.Equal(t, db_models.SeatAvailable, seatMap(t, store)[12])
}

func TestGormRecordStore_SaveCheckoutHoldsOnlyAvailableSeats(t *testing.T) {
	store := NewRecordStore(newTestDB(t))
	ctx := context.Background()
	_, err := store.SeedSeats(ctx, []int{12, 13})
	require.NoError(t, err)

	first := newPendingTxn("CRA")
	sold, err := store.SaveCheckout(ctx, first, []int{12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sold)
	assert.Equal(t, "12", first.SeatsHeld)

	second := newPendingTxn("CRB")
	second.Seats = "12,13,99"
	sold, err = store.SaveCheckout(ctx, second, []int{12, 13, 99})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sold)
	assert.Equal(t, "13", second.SeatsHeld)

	got, err := store.FindTransactionByCheckoutID(ctx, "CRB")
	require.NoError(t, err)
	assert.Equal(t, "12,13,99", got.Seats)
	assert.Equal(t, "13", got.SeatsHeld)

	failed := newPendingTxn("CRA")
	_, err = store.SaveCheckout(ctx, failed, nil)
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
	assert.Empty(t, failed.SeatsHeld)
}

func TestGormRecordStore_SaveCheckoutWithoutSeats(t *testing.T) {
	store := NewRecordStore(newTestDB(t))
	ctx := context.Background()

	sold, err := store.SaveCheckout(ctx, newPendingTxn("CR2"), nil)
	require.NoError(t, err)
	assert.Zero(t, sold)

	_, err = store.FindTransactionByCheckoutID(ctx, "CR2")
	assert.NoError(t, err)
}

func TestGormRecordStore_RecordOutcomeOnlyOnce(t *testing.T) {
	store := NewRecordStore(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, store.InsertTransaction(ctx, newPendingTxn("CR1")))

	outcome := db_models.Outcome{
		Status:             db_models.TxnStatusCompleted,
		MerchantRequestID:  "MR1",
		ResultCode:         0,
		ResultDesc:         "The service request is processed successfully.",
		MpesaReceiptNumber: "NLJ7RT61SV",
		TransactionDate:    "20191219102115",
		PaidPhone:          "254708374149",
		PaidAmount:         decimal.NewNullDecimal(decimal.NewFromInt(500)),
		CallbackMetadata:   datatypes.JSON(`{"Item":[]}`),
	}

	updated, err := store.RecordOutcome(ctx, "CR1", outcome)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := store.FindTransactionByCheckoutID(ctx, "CR1")
	require.NoError(t, err)
	assert.Equal(t, db_models.TxnStatusCompleted, got.Status)
	assert.Equal(t, "NLJ7RT61SV", got.MpesaReceiptNumber)
	require.NotNil(t, got.ResultCode)
	assert.Equal(t, 0, *got.ResultCode)
	assert.True(t, got.PaidAmount.Valid)

	outcome.Status = db_models.TxnStatusFailed
	updated, err = store.RecordOutcome(ctx, "CR1", outcome)
	require.NoError(t, err)
	assert.False(t, updated, "terminal records are not overwritten")

	updated, err = store.RecordOutcome(ctx, "unknown", outcome)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestGormRecordStore_ListAllSeatsEmpty(t *testing.T) {
	store := NewRecordStore(newTestDB(t))

	seats, err := store.ListAllSeats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seats)
}
