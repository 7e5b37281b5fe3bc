package services

import (
	"context"
	"fmt"
	"log"

	"mirage/internal/models/db_models"
	"mirage/internal/models/response_models"
	"mirage/internal/repositories"
	"mirage/pkg/utils"
)

type SeatService interface {
	GetSeatStatus(ctx context.Context) (response_models.SeatStatusMap, error)
	// SeedSeats creates seats from..to (inclusive) that do not exist yet.
	SeedSeats(ctx context.Context, from, to int) (int64, error)
}

type seatService struct {
	store repositories.RecordStore
}

func NewSeatService(store repositories.RecordStore) SeatService {
	return &seatService{store: store}
}

func (s *seatService) GetSeatStatus(ctx context.Context) (response_models.SeatStatusMap, error) {
	seats, err := s.store.ListAllSeats(ctx)
	if err != nil {
		return nil, fmt.Errorf("getSeatStatus: %w", err)
	}
	statuses := make(response_models.SeatStatusMap, len(seats))
	for _, seat := range seats {
		statuses[seat.SeatNumber] = string(seat.Status)
	}
	return statuses, nil
}

func (s *seatService) SeedSeats(ctx context.Context, from, to int) (int64, error) {
	if from < 1 || to < from {
		return 0, fmt.Errorf("%w: seat range %d..%d", utils.ErrValidation, from, to)
	}
	numbers := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		numbers = append(numbers, n)
	}
	created, err := s.store.SeedSeats(ctx, numbers)
	if err != nil {
		return 0, fmt.Errorf("seedSeats: %w", err)
	}
	log.Printf("seats: seeded %d new seats in %d..%d (%s)", created, from, to, db_models.SeatAvailable)
	return created, nil
}
