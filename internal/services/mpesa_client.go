package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mirage/pkg/utils"
)

const (
	oauthPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	transactionTypePaybill = "CustomerPayBillOnline"
)

// MpesaGateway talks to the Daraja API. Every call is a single attempt.
type MpesaGateway interface {
	GetAccessToken(ctx context.Context) (string, error)
	InitiatePush(ctx context.Context, accessToken string, params PushParams) (*PushReply, error)
}

type MpesaClientConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
}

// PushParams is one STK push. Amount is whole shillings.
type PushParams struct {
	Phone            string
	Amount           int64
	Shortcode        string
	Passkey          string
	CallbackURL      string
	AccountReference string
	Description      string
}

type PushReply struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
	// Timestamp is the YYYYMMDDHHmmss value sent with the push.
	Timestamp string
}

type stkPushBody struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type mpesaClient struct {
	cfg MpesaClientConfig
	hc  *http.Client
	now func() time.Time
}

// NewMpesaClient builds a gateway client. A nil hc uses a default http.Client.
func NewMpesaClient(cfg MpesaClientConfig, hc *http.Client) MpesaGateway {
	if hc == nil {
		hc = &http.Client{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &mpesaClient{cfg: cfg, hc: hc, now: time.Now}
}

func (m *mpesaClient) GetAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.BaseURL+oauthPath, nil)
	if err != nil {
		return "", &utils.AuthError{Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.SetBasicAuth(m.cfg.ConsumerKey, m.cfg.ConsumerSecret)

	resp, err := m.hc.Do(req)
	if err != nil {
		return "", &utils.AuthError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &utils.AuthError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
	}

	var reply struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", &utils.AuthError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("decode body: %v", err)}
	}
	if reply.AccessToken == "" {
		return "", &utils.AuthError{StatusCode: resp.StatusCode, Detail: "response has no access_token"}
	}
	return reply.AccessToken, nil
}

func (m *mpesaClient) InitiatePush(ctx context.Context, accessToken string, params PushParams) (*PushReply, error) {
	timestamp := utils.DarajaTimestamp(m.now())
	body := stkPushBody{
		BusinessShortCode: params.Shortcode,
		Password:          utils.StkPassword(params.Shortcode, params.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionTypePaybill,
		Amount:            params.Amount,
		PartyA:            params.Phone,
		PartyB:            params.Shortcode,
		PhoneNumber:       params.Phone,
		CallBackURL:       params.CallbackURL,
		AccountReference:  params.AccountReference,
		TransactionDesc:   params.Description,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("initiatePush: json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+stkPushPath, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("initiatePush: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := m.hc.Do(req)
	if err != nil {
		return nil, &utils.GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, &utils.GatewayError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("read body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, gatewayErrorFromBody(resp.StatusCode, raw)
	}

	var reply struct {
		MerchantRequestID   string `json:"MerchantRequestID"`
		CheckoutRequestID   string `json:"CheckoutRequestID"`
		ResponseCode        string `json:"ResponseCode"`
		ResponseDescription string `json:"ResponseDescription"`
		CustomerMessage     string `json:"CustomerMessage"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, &utils.GatewayError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed push response: %v", err)}
	}
	if reply.ResponseCode != "" && reply.ResponseCode != "0" {
		return nil, &utils.GatewayError{StatusCode: resp.StatusCode, Code: reply.ResponseCode, Message: reply.ResponseDescription}
	}
	if reply.CheckoutRequestID == "" {
		return nil, &utils.GatewayError{StatusCode: resp.StatusCode, Message: "push response has no CheckoutRequestID"}
	}

	return &PushReply{
		MerchantRequestID:   reply.MerchantRequestID,
		CheckoutRequestID:   reply.CheckoutRequestID,
		ResponseCode:        reply.ResponseCode,
		ResponseDescription: reply.ResponseDescription,
		CustomerMessage:     reply.CustomerMessage,
		Timestamp:           timestamp,
	}, nil
}

// gatewayErrorFromBody pulls Daraja's {"errorCode","errorMessage"} out of a
// failed response, falling back to the status line.
func gatewayErrorFromBody(status int, raw []byte) *utils.GatewayError {
	var body struct {
		RequestID    string `json:"requestId"`
		ErrorCode    string `json:"errorCode"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.ErrorMessage != "" {
		return &utils.GatewayError{StatusCode: status, Code: body.ErrorCode, Message: body.ErrorMessage}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &utils.GatewayError{StatusCode: status, Message: fmt.Sprintf("Request failed with status code %d: %s", status, msg)}
}
