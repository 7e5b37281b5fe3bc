package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"mirage/internal/models/db_models"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(channel string, message interface{}) error {
	return m.Called(channel, message).Error(0)
}

func TestPubNubSeatNotifier_SeatsChanged(t *testing.T) {
	pub := &MockPublisher{}
	notifier := &pubnubSeatNotifier{publisher: pub, channel: "seats"}

	pub.On("Publish", "seats", map[string]any{
		"type":  "seat_status",
		"seats": map[string]string{"12": "sold", "13": "sold"},
	}).Return(nil)

	notifier.SeatsChanged(context.Background(), []int{12, 13}, db_models.SeatSold)

	pub.AssertExpectations(t)
}

func TestPubNubSeatNotifier_SkipsEmptyAndSwallowsErrors(t *testing.T) {
	pub := &MockPublisher{}
	notifier := &pubnubSeatNotifier{publisher: pub, channel: "seats"}

	notifier.SeatsChanged(context.Background(), nil, db_models.SeatSold)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)

	pub.On("Publish", "seats", mock.Anything).Return(errors.New("403 forbidden"))
	assert.NotPanics(t, func() {
		notifier.SeatsChanged(context.Background(), []int{1}, db_models.SeatAvailable)
	})
	pub.AssertNumberOfCalls(t, "Publish", 1)
}
