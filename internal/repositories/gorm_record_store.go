package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"mirage/internal/infra"
	"mirage/internal/models/db_models"
	"mirage/pkg/utils"
)

type gormRecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) RecordStore {
	return &gormRecordStore{db: db}
}

// AutoMigrate creates the transactions and seats tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&db_models.Transaction{}, &db_models.Seat{})
}

func (g *gormRecordStore) InsertTransaction(ctx context.Context, txn *db_models.Transaction) error {
	if err := g.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("%w: insert transaction: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (g *gormRecordStore) SaveCheckout(ctx context.Context, txn *db_models.Transaction, seatNumbers []int) (int64, error) {
	var held []int
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		held, err = holdSeats(tx, seatNumbers)
		if err != nil {
			return fmt.Errorf("mark seats sold: %v", err)
		}
		txn.SeatsHeld = utils.JoinSeats(held)
		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("insert transaction: %v", err)
		}
		return nil
	})
	if err != nil {
		txn.SeatsHeld = ""
		return 0, fmt.Errorf("%w: save checkout: %v", utils.ErrDatabaseError, err)
	}
	return int64(len(held)), nil
}

// holdSeats sells seats one at a time so the result says exactly which
// rows this call moved out of available.
func holdSeats(tx *gorm.DB, seatNumbers []int) ([]int, error) {
	var held []int
	for _, n := range seatNumbers {
		res := tx.Model(&db_models.Seat{}).
			Where("seat_number = ? AND status = ?", n, db_models.SeatAvailable).
			Updates(map[string]interface{}{
				"status":     db_models.SeatSold,
				"updated_at": utils.NowUnixSeconds(),
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			held = append(held, n)
		}
	}
	return held, nil
}

func (g *gormRecordStore) FindTransactionByCheckoutID(ctx context.Context, checkoutRequestID string) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := g.db.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: find transaction: %v", utils.ErrDatabaseError, err)
	}
	return &txn, nil
}

func (g *gormRecordStore) RecordOutcome(ctx context.Context, checkoutRequestID string, outcome db_models.Outcome) (bool, error) {
	updates := map[string]interface{}{
		"status":               outcome.Status,
		"merchant_request_id":  outcome.MerchantRequestID,
		"result_code":          outcome.ResultCode,
		"result_desc":          outcome.ResultDesc,
		"mpesa_receipt_number": outcome.MpesaReceiptNumber,
		"transaction_date":     outcome.TransactionDate,
		"paid_phone":           outcome.PaidPhone,
		"paid_amount":          outcome.PaidAmount,
		"updated_at":           utils.NowUnixSeconds(),
	}
	if len(outcome.CallbackMetadata) > 0 {
		updates["callback_metadata"] = outcome.CallbackMetadata
	}

	res := g.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, db_models.TxnStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("%w: record outcome: %v", utils.ErrDatabaseError, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (g *gormRecordStore) MarkSeatsSold(ctx context.Context, seatNumbers []int) (int64, error) {
	n, err := setSeatStatus(g.db.WithContext(ctx), seatNumbers, db_models.SeatSold)
	if err != nil {
		return 0, fmt.Errorf("%w: mark seats sold: %v", utils.ErrDatabaseError, err)
	}
	return n, nil
}

func (g *gormRecordStore) ReleaseSeats(ctx context.Context, seatNumbers []int) (int64, error) {
	n, err := setSeatStatus(g.db.WithContext(ctx), seatNumbers, db_models.SeatAvailable)
	if err != nil {
		return 0, fmt.Errorf("%w: release seats: %v", utils.ErrDatabaseError, err)
	}
	return n, nil
}

func setSeatStatus(db *gorm.DB, seatNumbers []int, status db_models.SeatStatus) (int64, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}
	res := db.Model(&db_models.Seat{}).
		Where("seat_number IN ? AND status <> ?", seatNumbers, status).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": utils.NowUnixSeconds(),
		})
	return res.RowsAffected, res.Error
}

func (g *gormRecordStore) ListAllSeats(ctx context.Context) ([]db_models.Seat, error) {
	var seats []db_models.Seat
	if err := g.db.WithContext(ctx).Order("seat_number").Find(&seats).Error; err != nil {
		return nil, fmt.Errorf("%w: list seats: %v", utils.ErrDatabaseError, err)
	}
	return seats, nil
}

func (g *gormRecordStore) SeedSeats(ctx context.Context, seatNumbers []int) (int64, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}
	seats := make([]db_models.Seat, 0, len(seatNumbers))
	for _, n := range seatNumbers {
		seats = append(seats, db_models.Seat{SeatNumber: n, Status: db_models.SeatAvailable})
	}
	res := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "seat_number"}}, DoNothing: true}).
		Create(&seats)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: seed seats: %v", utils.ErrDatabaseError, res.Error)
	}
	return res.RowsAffected, nil
}

func (g *gormRecordStore) Close(ctx context.Context) error {
	return infra.ClosePostgresql(g.db)
}
