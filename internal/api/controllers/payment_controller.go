package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"mirage/internal/models/request_models"
	"mirage/internal/models/response_models"
	"mirage/internal/services"
	"mirage/pkg/utils"
)

const (
	invalidPushPayload = "Missing or invalid required fields"
	pushAcceptedMsg    = "Request is successfully done ✔✔. Please enter mpesa pin to complete the transaction"
	callbackReceived   = "Callback received"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// StkPush godoc
// @Summary Send an M-Pesa STK push to the buyer's phone
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.StkPushRequest true "Checkout form"
// @Success 200 {object} utils.PushResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} utils.PushResponse
// @Router /api/stkpush [post]
func (p *PaymentController) StkPush(c *gin.Context) {
	var request request_models.StkPushRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, invalidPushPayload)
		return
	}

	result, err := p.paymentService.InitiatePush(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.PushResponse{
		Msg:           pushAcceptedMsg,
		Status:        true,
		TransactionID: result.CheckoutRequestID,
	})
}

// Callback godoc
// @Summary Receive the STK push result from the gateway
// @Tags Payments
// @Accept json
// @Produce plain
// @Success 200 {string} string "Callback received"
// @Router /api/callback [post]
func (p *PaymentController) Callback(c *gin.Context) {
	var envelope request_models.StkCallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		log.Printf("callback: unreadable body: %v", err)
		utils.RespondError(c, http.StatusBadRequest, utils.ErrMalformedCallback.Error())
		return
	}

	if err := p.paymentService.HandleCallback(c.Request.Context(), envelope); err != nil {
		if errors.Is(err, utils.ErrMalformedCallback) {
			log.Printf("callback: %v", err)
			utils.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("callback: %v", err)
	}

	c.String(http.StatusOK, callbackReceived)
}

// PaymentStatus godoc
// @Summary Look up a push attempt by its CheckoutRequestID
// @Tags Payments
// @Produce json
// @Param checkoutRequestID path string true "CheckoutRequestID"
// @Success 200 {object} response_models.StatusResponse
// @Router /api/payment-status/{checkoutRequestID} [get]
func (p *PaymentController) PaymentStatus(c *gin.Context) {
	status, err := p.paymentService.GetPaymentStatus(c.Request.Context(), c.Param("checkoutRequestID"))
	if err != nil {
		log.Printf("payment-status: %v", err)
		utils.RespondMessage(c, http.StatusInternalServerError, "Failed to fetch payment status")
		return
	}

	c.JSON(http.StatusOK, response_models.StatusResponse{Status: status})
}
