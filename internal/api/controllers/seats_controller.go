package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"mirage/internal/services"
	"mirage/pkg/utils"
)

type SeatController struct {
	seatService services.SeatService
}

func NewSeatController(seatService services.SeatService) *SeatController {
	return &SeatController{seatService: seatService}
}

// SeatStatus returns {"<seatNumber>": "<status>"} for every seat.
func (s *SeatController) SeatStatus(c *gin.Context) {
	seats, err := s.seatService.GetSeatStatus(c.Request.Context())
	if err != nil {
		log.Printf("seats-status: %v", err)
		utils.RespondMessage(c, http.StatusInternalServerError, "Failed to fetch seat status")
		return
	}

	c.JSON(http.StatusOK, seats)
}
