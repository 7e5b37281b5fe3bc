package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"mirage/internal/models/db_models"
)

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) InsertTransaction(ctx context.Context, txn *db_models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockRecordStore) SaveCheckout(ctx context.Context, txn *db_models.Transaction, seatNumbers []int) (int64, error) {
	args := m.Called(ctx, txn, seatNumbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordStore) FindTransactionByCheckoutID(ctx context.Context, checkoutRequestID string) (*db_models.Transaction, error) {
	args := m.Called(ctx, checkoutRequestID)
	txn, _ := args.Get(0).(*db_models.Transaction)
	return txn, args.Error(1)
}

func (m *MockRecordStore) RecordOutcome(ctx context.Context, checkoutRequestID string, outcome db_models.Outcome) (bool, error) {
	args := m.Called(ctx, checkoutRequestID, outcome)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordStore) MarkSeatsSold(ctx context.Context, seatNumbers []int) (int64, error) {
	args := m.Called(ctx, seatNumbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordStore) ReleaseSeats(ctx context.Context, seatNumbers []int) (int64, error) {
	args := m.Called(ctx, seatNumbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordStore) ListAllSeats(ctx context.Context) ([]db_models.Seat, error) {
	args := m.Called(ctx)
	seats, _ := args.Get(0).([]db_models.Seat)
	return seats, args.Error(1)
}

func (m *MockRecordStore) SeedSeats(ctx context.Context, seatNumbers []int) (int64, error) {
	args := m.Called(ctx, seatNumbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetAccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) InitiatePush(ctx context.Context, accessToken string, params PushParams) (*PushReply, error) {
	args := m.Called(ctx, accessToken, params)
	reply, _ := args.Get(0).(*PushReply)
	return reply, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPaymentConfirmation(to, name, amount string) error {
	return m.Called(to, name, amount).Error(0)
}

type seatEvent struct {
	Seats  []int
	Status db_models.SeatStatus
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []seatEvent
}

func (r *recordingNotifier) SeatsChanged(_ context.Context, seatNumbers []int, status db_models.SeatStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, seatEvent{Seats: seatNumbers, Status: status})
}

// allowAll is a throttle that never blocks.
type allowAll struct{}

func (allowAll) Acquire(context.Context, string) (bool, error) { return true, nil }
func (allowAll) Release(context.Context, string) error         { return nil }
