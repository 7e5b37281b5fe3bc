package db_models

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSold      SeatStatus = "sold"
)

type Seat struct {
	BaseModel
	SeatNumber int        `gorm:"uniqueIndex" json:"seatNumber"`
	Status     SeatStatus `gorm:"size:16;default:available" json:"status"`
}
