package request_models

import (
	"encoding/json"
	"strings"
)

// StkCallbackEnvelope is the body Daraja posts to the callback URL. Email and
// Name are not sent by Daraja itself but are honoured when a relay adds them.
type StkCallbackEnvelope struct {
	Body struct {
		StkCallback *StkCallback `json:"stkCallback"`
	} `json:"Body"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// String renders the item value without JSON quoting; numbers keep their
// literal form so TransactionDate 20191219102115 is not mangled into a float.
func (i CallbackItem) String() string {
	raw := strings.TrimSpace(string(i.Value))
	if raw == "" || raw == "null" {
		return ""
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(i.Value, &s); err == nil {
			return s
		}
	}
	return raw
}

// Lookup finds a metadata item by name.
func (m *CallbackMetadata) Lookup(name string) (CallbackItem, bool) {
	if m == nil {
		return CallbackItem{}, false
	}
	for _, item := range m.Item {
		if item.Name == name {
			return item, true
		}
	}
	return CallbackItem{}, false
}

// Value returns the rendered value of the named item, or "".
func (m *CallbackMetadata) Value(name string) string {
	item, _ := m.Lookup(name)
	return item.String()
}
