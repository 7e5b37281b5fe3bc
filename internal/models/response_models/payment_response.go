package response_models

// StatusResponse is returned by the payment status endpoint.
type StatusResponse struct {
	Status string `json:"status"`
}

const StatusNotFound = "Not Found"

// SeatStatusMap maps seat number to status. encoding/json writes the int keys
// as strings, which is the shape the seat map page reads.
type SeatStatusMap map[int]string

// PushResult is what the payment service hands back after a push was accepted.
type PushResult struct {
	CheckoutRequestID string
	MerchantRequestID string
	CustomerMessage   string
	SeatsSold         int64
}
