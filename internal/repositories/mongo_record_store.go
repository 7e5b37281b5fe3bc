package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"
	"mirage/internal/infra"
	"mirage/internal/models/db_models"
	"mirage/pkg/utils"
)

type MongoCollections struct {
	Transactions string
	Seats        string
}

// mongoTransaction keeps the field names of documents already in the
// MirageCollection collection.
type mongoTransaction struct {
	ObjectID      primitive.ObjectID `bson:"_id,omitempty"`
	RecordID      string             `bson:"recordId,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Phone         string             `bson:"phone"`
	Amount        interface{}        `bson:"amount"`
	TicketType    string             `bson:"ticketType"`
	TotalQuantity int                `bson:"totalQuantity"`
	Seats         string             `bson:"seats"`
	SeatsHeld     string             `bson:"seatsHeld,omitempty"`

	CheckoutRequestID string `bson:"CheckoutRequestID"`
	MerchantRequestID string `bson:"MerchantRequestID,omitempty"`
	Timestamp         string `bson:"timestamp"`
	Status            string `bson:"status"`

	ResultCode         *int        `bson:"ResultCode,omitempty"`
	ResultDesc         string      `bson:"ResultDesc,omitempty"`
	MpesaReceiptNumber string      `bson:"MpesaReceiptNumber,omitempty"`
	TransactionDate    string      `bson:"TransactionDate,omitempty"`
	PaidPhone          string      `bson:"paidPhone,omitempty"`
	PaidAmount         interface{} `bson:"paidAmount,omitempty"`
	CallbackMetadata   string      `bson:"callbackMetadata,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty"`
}

type mongoSeat struct {
	SeatNumber int    `bson:"seatNumber"`
	Status     string `bson:"status"`
}

type mongoRecordStore struct {
	db           *mongo.Database
	transactions *mongo.Collection
	seats        *mongo.Collection
}

func NewMongoRecordStore(db *mongo.Database, cols MongoCollections) RecordStore {
	return &mongoRecordStore{
		db:           db,
		transactions: db.Collection(cols.Transactions),
		seats:        db.Collection(cols.Seats),
	}
}

// EnsureMongoIndexes creates the lookup indexes. The CheckoutRequestID index
// is not unique so that legacy duplicates do not block startup.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database, cols MongoCollections) error {
	_, err := db.Collection(cols.Transactions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "CheckoutRequestID", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create transaction index: %w", err)
	}
	_, err = db.Collection(cols.Seats).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "seatNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create seat index: %w", err)
	}
	return nil
}

func (m *mongoRecordStore) InsertTransaction(ctx context.Context, txn *db_models.Transaction) error {
	doc, err := toMongoTransaction(txn)
	if err != nil {
		return fmt.Errorf("%w: insert transaction: %v", utils.ErrDatabaseError, err)
	}
	if _, err := m.transactions.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert transaction: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

// SaveCheckout holds the seats first and then inserts the transaction.
// Mongo multi-document transactions need a replica set, which the
// deployment does not guarantee, so a failed insert hands the held seats
// back instead of rolling back.
func (m *mongoRecordStore) SaveCheckout(ctx context.Context, txn *db_models.Transaction, seatNumbers []int) (int64, error) {
	held, err := m.holdSeats(ctx, seatNumbers)
	if err != nil {
		m.releaseHeld(ctx, txn.CheckoutRequestID, held)
		return 0, fmt.Errorf("%w: mark seats sold: %v", utils.ErrDatabaseError, err)
	}
	txn.SeatsHeld = utils.JoinSeats(held)
	if err := m.InsertTransaction(ctx, txn); err != nil {
		txn.SeatsHeld = ""
		m.releaseHeld(ctx, txn.CheckoutRequestID, held)
		return 0, err
	}
	return int64(len(held)), nil
}

// holdSeats returns the seats it moved to sold, including on error.
func (m *mongoRecordStore) holdSeats(ctx context.Context, seatNumbers []int) ([]int, error) {
	var held []int
	for _, n := range seatNumbers {
		res, err := m.seats.UpdateOne(ctx,
			bson.M{"seatNumber": n, "status": string(db_models.SeatAvailable)},
			bson.M{"$set": bson.M{"status": string(db_models.SeatSold)}},
		)
		if err != nil {
			return held, err
		}
		if res.ModifiedCount > 0 {
			held = append(held, n)
		}
	}
	return held, nil
}

func (m *mongoRecordStore) releaseHeld(ctx context.Context, checkoutRequestID string, held []int) {
	if len(held) == 0 {
		return
	}
	if _, err := m.setSeatStatus(ctx, held, db_models.SeatAvailable); err != nil {
		log.Printf("mongo: checkout %s not stored and seats %v still sold: %v", checkoutRequestID, held, err)
	}
}

func (m *mongoRecordStore) FindTransactionByCheckoutID(ctx context.Context, checkoutRequestID string) (*db_models.Transaction, error) {
	var doc mongoTransaction
	err := m.transactions.FindOne(ctx, bson.M{"CheckoutRequestID": checkoutRequestID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: find transaction: %v", utils.ErrDatabaseError, err)
	}
	return fromMongoTransaction(&doc), nil
}

func (m *mongoRecordStore) RecordOutcome(ctx context.Context, checkoutRequestID string, outcome db_models.Outcome) (bool, error) {
	resultCode := outcome.ResultCode
	set := bson.M{
		"status":             string(outcome.Status),
		"MerchantRequestID":  outcome.MerchantRequestID,
		"ResultCode":         resultCode,
		"ResultDesc":         outcome.ResultDesc,
		"MpesaReceiptNumber": outcome.MpesaReceiptNumber,
		"TransactionDate":    outcome.TransactionDate,
		"paidPhone":          outcome.PaidPhone,
		"updatedAt":          time.Now(),
	}
	if outcome.PaidAmount.Valid {
		amount, err := toDecimal128(outcome.PaidAmount.Decimal)
		if err != nil {
			return false, fmt.Errorf("%w: record outcome: %v", utils.ErrDatabaseError, err)
		}
		set["paidAmount"] = amount
	}
	if len(outcome.CallbackMetadata) > 0 {
		set["callbackMetadata"] = string(outcome.CallbackMetadata)
	}

	res, err := m.transactions.UpdateOne(ctx,
		bson.M{"CheckoutRequestID": checkoutRequestID, "status": string(db_models.TxnStatusPending)},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("%w: record outcome: %v", utils.ErrDatabaseError, err)
	}
	return res.MatchedCount > 0, nil
}

func (m *mongoRecordStore) MarkSeatsSold(ctx context.Context, seatNumbers []int) (int64, error) {
	n, err := m.setSeatStatus(ctx, seatNumbers, db_models.SeatSold)
	if err != nil {
		return 0, fmt.Errorf("%w: mark seats sold: %v", utils.ErrDatabaseError, err)
	}
	return n, nil
}

func (m *mongoRecordStore) ReleaseSeats(ctx context.Context, seatNumbers []int) (int64, error) {
	n, err := m.setSeatStatus(ctx, seatNumbers, db_models.SeatAvailable)
	if err != nil {
		return 0, fmt.Errorf("%w: release seats: %v", utils.ErrDatabaseError, err)
	}
	return n, nil
}

func (m *mongoRecordStore) setSeatStatus(ctx context.Context, seatNumbers []int, status db_models.SeatStatus) (int64, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}
	res, err := m.seats.UpdateMany(ctx,
		bson.M{"seatNumber": bson.M{"$in": seatNumbers}},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *mongoRecordStore) ListAllSeats(ctx context.Context) ([]db_models.Seat, error) {
	cursor, err := m.seats.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seatNumber", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: list seats: %v", utils.ErrDatabaseError, err)
	}

	var docs []mongoSeat
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: list seats: %v", utils.ErrDatabaseError, err)
	}

	seats := make([]db_models.Seat, 0, len(docs))
	for _, d := range docs {
		seats = append(seats, db_models.Seat{SeatNumber: d.SeatNumber, Status: db_models.SeatStatus(d.Status)})
	}
	return seats, nil
}

func (m *mongoRecordStore) SeedSeats(ctx context.Context, seatNumbers []int) (int64, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(seatNumbers))
	for _, n := range seatNumbers {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"seatNumber": n}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"status": string(db_models.SeatAvailable)}}).
			SetUpsert(true))
	}
	res, err := m.seats.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("%w: seed seats: %v", utils.ErrDatabaseError, err)
	}
	return res.UpsertedCount, nil
}

func (m *mongoRecordStore) Close(ctx context.Context) error {
	return infra.CloseMongo(ctx, m.db.Client())
}

func toMongoTransaction(txn *db_models.Transaction) (*mongoTransaction, error) {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	amount, err := toDecimal128(txn.Amount)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &mongoTransaction{
		RecordID:          txn.ID.String(),
		Name:              txn.Name,
		Email:             txn.Email,
		Phone:             txn.Phone,
		Amount:            amount,
		TicketType:        txn.TicketType,
		TotalQuantity:     txn.TotalQuantity,
		Seats:             txn.Seats,
		SeatsHeld:         txn.SeatsHeld,
		CheckoutRequestID: txn.CheckoutRequestID,
		MerchantRequestID: txn.MerchantRequestID,
		Timestamp:         txn.Timestamp,
		Status:            string(txn.Status),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func fromMongoTransaction(doc *mongoTransaction) *db_models.Transaction {
	txn := &db_models.Transaction{
		Name:               doc.Name,
		Email:              doc.Email,
		Phone:              doc.Phone,
		Amount:             decimalFromBSON(doc.Amount),
		TicketType:         doc.TicketType,
		TotalQuantity:      doc.TotalQuantity,
		Seats:              doc.Seats,
		SeatsHeld:          doc.SeatsHeld,
		CheckoutRequestID:  doc.CheckoutRequestID,
		MerchantRequestID:  doc.MerchantRequestID,
		Timestamp:          doc.Timestamp,
		Status:             db_models.TransactionStatus(doc.Status),
		ResultCode:         doc.ResultCode,
		ResultDesc:         doc.ResultDesc,
		MpesaReceiptNumber: doc.MpesaReceiptNumber,
		TransactionDate:    doc.TransactionDate,
		PaidPhone:          doc.PaidPhone,
	}
	if id, err := uuid.Parse(doc.RecordID); err == nil {
		txn.ID = id
	}
	if !doc.CreatedAt.IsZero() {
		txn.CreatedAt = doc.CreatedAt.Unix()
	}
	if !doc.UpdatedAt.IsZero() {
		txn.UpdatedAt = doc.UpdatedAt.Unix()
	}
	if doc.PaidAmount != nil {
		txn.PaidAmount = decimal.NewNullDecimal(decimalFromBSON(doc.PaidAmount))
	}
	if doc.CallbackMetadata != "" {
		txn.CallbackMetadata = datatypes.JSON(doc.CallbackMetadata)
	}
	return txn
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

// decimalFromBSON accepts the numeric encodings older documents used for amount.
func decimalFromBSON(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case primitive.Decimal128:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
