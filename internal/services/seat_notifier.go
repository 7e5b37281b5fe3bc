package services

import (
	"context"
	"log"
	"strconv"

	pubnub "github.com/pubnub/go"
	"mirage/internal/models/db_models"
)

// SeatNotifier tells connected seat-map pages that seats changed hands.
type SeatNotifier interface {
	SeatsChanged(ctx context.Context, seatNumbers []int, status db_models.SeatStatus)
}

// seatPublisher is the slice of the PubNub client the notifier needs.
type seatPublisher interface {
	Publish(channel string, message interface{}) error
}

type pubnubPublisher struct {
	pn *pubnub.PubNub
}

func (p *pubnubPublisher) Publish(channel string, message interface{}) error {
	_, _, err := p.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
	return err
}

type pubnubSeatNotifier struct {
	publisher seatPublisher
	channel   string
}

func NewPubNubSeatNotifier(pn *pubnub.PubNub, channel string) SeatNotifier {
	return &pubnubSeatNotifier{publisher: &pubnubPublisher{pn: pn}, channel: channel}
}

// SeatsChanged publishes {"type":"seat_status","seats":{"12":"sold"}}.
// Publish failures are logged; the seat map endpoint stays authoritative.
func (n *pubnubSeatNotifier) SeatsChanged(ctx context.Context, seatNumbers []int, status db_models.SeatStatus) {
	if len(seatNumbers) == 0 {
		return
	}
	seats := make(map[string]string, len(seatNumbers))
	for _, s := range seatNumbers {
		seats[strconv.Itoa(s)] = string(status)
	}
	msg := map[string]any{
		"type":  "seat_status",
		"seats": seats,
	}
	if err := n.publisher.Publish(n.channel, msg); err != nil {
		log.Printf("seats: publish to %s failed: %v", n.channel, err)
	}
}

type noopSeatNotifier struct{}

func NewNoopSeatNotifier() SeatNotifier { return noopSeatNotifier{} }

func (noopSeatNotifier) SeatsChanged(context.Context, []int, db_models.SeatStatus) {}
