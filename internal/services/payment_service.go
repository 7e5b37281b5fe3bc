package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"mirage/internal/models/db_models"
	"mirage/internal/models/request_models"
	"mirage/internal/models/response_models"
	"mirage/internal/monitoring"
	"mirage/internal/repositories"
	"mirage/pkg/utils"
)

type PaymentConfig struct {
	Shortcode        string
	Passkey          string
	CallbackURL      string
	CallbackSecret   string // signs the callback URL when set
	AccountReference string
	TransactionDesc  string

	// RecordCallbackOutcome writes COMPLETED/FAILED back to the record.
	RecordCallbackOutcome bool
	// ReleaseSeatsOnFailure hands VIP seats back when the payment fails.
	ReleaseSeatsOnFailure bool
}

type PaymentService interface {
	InitiatePush(ctx context.Context, req request_models.StkPushRequest) (*response_models.PushResult, error)
	HandleCallback(ctx context.Context, envelope request_models.StkCallbackEnvelope) error
	GetPaymentStatus(ctx context.Context, checkoutRequestID string) (string, error)
}

type paymentService struct {
	store    repositories.RecordStore
	gateway  MpesaGateway
	mailer   IMailService
	throttle PushThrottle
	notifier SeatNotifier
	cfg      PaymentConfig
}

func NewPaymentService(
	store repositories.RecordStore,
	gateway MpesaGateway,
	mailer IMailService,
	throttle PushThrottle,
	notifier SeatNotifier,
	cfg PaymentConfig,
) PaymentService {
	if notifier == nil {
		notifier = NewNoopSeatNotifier()
	}
	return &paymentService{
		store:    store,
		gateway:  gateway,
		mailer:   mailer,
		throttle: throttle,
		notifier: notifier,
		cfg:      cfg,
	}
}

func validatePush(req request_models.StkPushRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "",
		strings.TrimSpace(req.Email) == "",
		strings.TrimSpace(req.Phone) == "",
		req.Amount == nil,
		req.TicketType == nil,
		req.TotalQuantity == nil:
		return utils.ErrValidation
	case !req.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be greater than zero", utils.ErrValidation)
	case !req.Amount.Equal(req.Amount.Truncate(0)):
		return fmt.Errorf("%w: amount must be a whole number of shillings", utils.ErrValidation)
	case *req.TotalQuantity < 1:
		return fmt.Errorf("%w: totalQuantity must be at least 1", utils.ErrValidation)
	}
	if *req.TicketType != db_models.TicketTypeVIP {
		return nil
	}
	for _, s := range req.Seats {
		if s < 1 {
			return fmt.Errorf("%w: invalid seat number %d", utils.ErrValidation, s)
		}
	}
	return nil
}

func (p *paymentService) InitiatePush(ctx context.Context, req request_models.StkPushRequest) (*response_models.PushResult, error) {
	if err := validatePush(req); err != nil {
		monitoring.RecordPush(monitoring.ResultInvalid)
		return nil, err
	}

	phone := utils.NormalizePhone(strings.TrimSpace(req.Phone))

	acquired, err := p.throttle.Acquire(ctx, phone)
	if err != nil {
		// throttle backend down: let the push through
		log.Printf("stkpush: throttle check for %s failed: %v", phone, err)
		acquired = true
	}
	if !acquired {
		monitoring.RecordPush(monitoring.ResultThrottled)
		return nil, utils.ErrTooManyRequests
	}

	reply, err := p.push(ctx, phone, req.Amount.IntPart())
	if err != nil {
		if relErr := p.throttle.Release(ctx, phone); relErr != nil {
			log.Printf("stkpush: release throttle for %s: %v", phone, relErr)
		}
		monitoring.RecordPush(monitoring.ResultError)
		return nil, err
	}

	txn := &db_models.Transaction{
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		Phone:             phone,
		Amount:            *req.Amount,
		TicketType:        *req.TicketType,
		TotalQuantity:     *req.TotalQuantity,
		CheckoutRequestID: reply.CheckoutRequestID,
		MerchantRequestID: reply.MerchantRequestID,
		Timestamp:         reply.Timestamp,
		Status:            db_models.TxnStatusPending,
	}

	var seats []int
	if txn.IsVIP() && len(req.Seats) > 0 {
		seats = req.Seats
		txn.Seats = utils.JoinSeats(seats)
	}

	sold, err := p.store.SaveCheckout(ctx, txn, seats)
	if err != nil {
		log.Printf("stkpush: push %s accepted by gateway but not saved: %v", reply.CheckoutRequestID, err)
		monitoring.RecordPush(monitoring.ResultError)
		return nil, fmt.Errorf("initiatePush: %w", err)
	}

	if len(seats) > 0 {
		log.Printf("stkpush: %d of %d seats marked sold for %s", sold, len(seats), reply.CheckoutRequestID)
		monitoring.RecordSeats(string(db_models.SeatSold), sold)
		if held := utils.SplitSeats(txn.SeatsHeld); len(held) > 0 {
			p.notifier.SeatsChanged(ctx, held, db_models.SeatSold)
		}
	}
	monitoring.RecordPush(monitoring.ResultOK)

	return &response_models.PushResult{
		CheckoutRequestID: reply.CheckoutRequestID,
		MerchantRequestID: reply.MerchantRequestID,
		CustomerMessage:   reply.CustomerMessage,
		SeatsSold:         sold,
	}, nil
}

// push runs the token exchange and the STK push. Gateway errors are returned
// unwrapped so their text reaches the caller as the provider sent it.
func (p *paymentService) push(ctx context.Context, phone string, amount int64) (*PushReply, error) {
	start := time.Now()
	token, err := p.gateway.GetAccessToken(ctx)
	monitoring.ObserveGateway("oauth", start)
	if err != nil {
		return nil, err
	}

	callbackURL, err := utils.SignedCallbackURL(p.cfg.CallbackURL, p.cfg.CallbackSecret)
	if err != nil {
		return nil, fmt.Errorf("initiatePush: sign callback url: %w", err)
	}

	start = time.Now()
	reply, err := p.gateway.InitiatePush(ctx, token, PushParams{
		Phone:            phone,
		Amount:           amount,
		Shortcode:        p.cfg.Shortcode,
		Passkey:          p.cfg.Passkey,
		CallbackURL:      callbackURL,
		AccountReference: p.cfg.AccountReference,
		Description:      p.cfg.TransactionDesc,
	})
	monitoring.ObserveGateway("stkpush", start)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// HandleCallback applies a result callback. Only a structurally broken
// payload is reported; everything after that is logged and swallowed.
func (p *paymentService) HandleCallback(ctx context.Context, envelope request_models.StkCallbackEnvelope) error {
	cb := envelope.Body.StkCallback
	if cb == nil || strings.TrimSpace(cb.CheckoutRequestID) == "" {
		return utils.ErrMalformedCallback
	}

	if cb.ResultCode == 0 {
		p.handlePaymentSuccess(ctx, envelope, cb)
	} else {
		p.handlePaymentFailure(ctx, cb)
	}
	return nil
}

func (p *paymentService) handlePaymentSuccess(ctx context.Context, envelope request_models.StkCallbackEnvelope, cb *request_models.StkCallback) {
	amount := cb.CallbackMetadata.Value("Amount")
	receipt := cb.CallbackMetadata.Value("MpesaReceiptNumber")
	date := cb.CallbackMetadata.Value("TransactionDate")
	phone := cb.CallbackMetadata.Value("PhoneNumber")

	log.Printf("callback: payment successful for %s: amount=%s receipt=%s date=%s phone=%s",
		cb.CheckoutRequestID, amount, receipt, date, phone)

	var txn *db_models.Transaction

	if p.cfg.RecordCallbackOutcome {
		outcome := outcomeFromCallback(cb, db_models.TxnStatusCompleted)
		outcome.MpesaReceiptNumber = receipt
		outcome.TransactionDate = date
		outcome.PaidPhone = phone
		if d, err := decimal.NewFromString(amount); err == nil {
			outcome.PaidAmount = decimal.NewNullDecimal(d)
		}

		recorded, err := p.store.RecordOutcome(ctx, cb.CheckoutRequestID, outcome)
		if err != nil {
			log.Printf("callback: record outcome for %s: %v", cb.CheckoutRequestID, err)
		} else if !recorded {
			txn = p.lookup(ctx, cb.CheckoutRequestID)
			if txn != nil && txn.Status.IsTerminal() {
				log.Printf("callback: %s already %s, skipping confirmation", cb.CheckoutRequestID, txn.Status)
				monitoring.RecordCallback(monitoring.ResultDuplicate)
				return
			}
		}
	}
	monitoring.RecordCallback(monitoring.ResultCompleted)

	to, name := strings.TrimSpace(envelope.Email), strings.TrimSpace(envelope.Name)
	if to == "" || name == "" || amount == "" {
		if txn == nil {
			txn = p.lookup(ctx, cb.CheckoutRequestID)
		}
		if txn != nil {
			if to == "" {
				to = txn.Email
			}
			if name == "" {
				name = txn.Name
			}
			if amount == "" {
				amount = txn.Amount.String()
			}
		}
	}
	if to == "" {
		log.Printf("callback: no recipient for %s, confirmation not sent", cb.CheckoutRequestID)
		return
	}

	if err := p.mailer.SendPaymentConfirmation(to, name, amount); err != nil {
		log.Printf("callback: confirmation email for %s: %v", cb.CheckoutRequestID, err)
		monitoring.RecordEmail(monitoring.ResultError)
		return
	}
	log.Printf("callback: confirmation email sent to %s", to)
	monitoring.RecordEmail(monitoring.ResultOK)
}

func (p *paymentService) handlePaymentFailure(ctx context.Context, cb *request_models.StkCallback) {
	log.Printf("callback: payment failed for %s: %d %s", cb.CheckoutRequestID, cb.ResultCode, cb.ResultDesc)

	if p.cfg.RecordCallbackOutcome {
		recorded, err := p.store.RecordOutcome(ctx, cb.CheckoutRequestID, outcomeFromCallback(cb, db_models.TxnStatusFailed))
		if err != nil {
			log.Printf("callback: record outcome for %s: %v", cb.CheckoutRequestID, err)
			monitoring.RecordCallback(monitoring.ResultFailed)
			return
		}
		if !recorded {
			log.Printf("callback: no pending record for %s", cb.CheckoutRequestID)
			monitoring.RecordCallback(monitoring.ResultDuplicate)
			return
		}
	}
	monitoring.RecordCallback(monitoring.ResultFailed)

	txn := p.lookup(ctx, cb.CheckoutRequestID)
	if txn == nil {
		return
	}
	// with outcomes off every failure callback sees a PENDING record; only
	// a record still pending may give anything back
	if !p.cfg.RecordCallbackOutcome && txn.Status != db_models.TxnStatusPending {
		return
	}

	// the buyer may retry right away
	if err := p.throttle.Release(ctx, txn.Phone); err != nil {
		log.Printf("callback: release push lock for %s: %v", cb.CheckoutRequestID, err)
	}

	if !p.cfg.ReleaseSeatsOnFailure || !txn.IsVIP() {
		return
	}
	seats := utils.SplitSeats(txn.SeatsHeld)
	if len(seats) == 0 {
		return
	}
	n, err := p.store.ReleaseSeats(ctx, seats)
	if err != nil {
		log.Printf("callback: release seats %s for %s: %v", txn.SeatsHeld, cb.CheckoutRequestID, err)
		return
	}
	log.Printf("callback: released %d of %d seats for %s", n, len(seats), cb.CheckoutRequestID)
	monitoring.RecordSeats(string(db_models.SeatAvailable), n)
	p.notifier.SeatsChanged(ctx, seats, db_models.SeatAvailable)
}

func (p *paymentService) lookup(ctx context.Context, checkoutRequestID string) *db_models.Transaction {
	txn, err := p.store.FindTransactionByCheckoutID(ctx, checkoutRequestID)
	if err != nil {
		if !errors.Is(err, utils.ErrTransactionNotFound) {
			log.Printf("callback: lookup %s: %v", checkoutRequestID, err)
		}
		return nil
	}
	return txn
}

func outcomeFromCallback(cb *request_models.StkCallback, status db_models.TransactionStatus) db_models.Outcome {
	outcome := db_models.Outcome{
		Status:            status,
		MerchantRequestID: cb.MerchantRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}
	if cb.CallbackMetadata != nil {
		if raw, err := json.Marshal(cb.CallbackMetadata); err == nil {
			outcome.CallbackMetadata = raw
		}
	}
	return outcome
}

func (p *paymentService) GetPaymentStatus(ctx context.Context, checkoutRequestID string) (string, error) {
	txn, err := p.store.FindTransactionByCheckoutID(ctx, checkoutRequestID)
	if err != nil {
		if errors.Is(err, utils.ErrTransactionNotFound) {
			return response_models.StatusNotFound, nil
		}
		return "", fmt.Errorf("getPaymentStatus: %w", err)
	}
	return string(txn.Status), nil
}
