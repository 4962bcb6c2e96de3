package razorpay

import "encoding/json"

// SignatureHeader is the header carrying the webhook body HMAC
const SignatureHeader = "X-Razorpay-Signature"

// Webhook event kinds this system reacts to
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
)

// WebhookEvent is the gateway's webhook envelope
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentEntity is the payment object embedded in a webhook event
type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Status           string `json:"status"`
	ErrorDescription string `json:"error_description"`
}

// ParseWebhookEvent decodes a raw webhook body. Signature verification must
// happen on the raw bytes before this is called.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
