package razorpay

import "testing"

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "test_secret"
	orderID := "order_NXhT2f4A9mZk3q"
	paymentID := "pay_NXhUVbZ9qoRXGx"

	valid := SignPayload([]byte(orderID+"|"+paymentID), secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{"valid signature", orderID, paymentID, valid, secret, true},
		{"tampered signature", orderID, paymentID, valid + "00", secret, false},
		{"wrong order", "order_other", paymentID, valid, secret, false},
		{"wrong payment", orderID, "pay_other", valid, secret, false},
		{"wrong secret", orderID, paymentID, valid, "other_secret", false},
		{"empty signature", orderID, paymentID, "", secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifyPaymentSignature(tt.orderID, tt.paymentID, tt.signature, tt.secret)
			if got != tt.want {
				t.Errorf("VerifyPaymentSignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	const secret = "webhook_secret"
	body := []byte(`{"event":"payment.captured","payload":{}}`)
	valid := SignPayload(body, secret)

	if !VerifyWebhookSignature(body, valid, secret) {
		t.Error("valid webhook signature rejected")
	}
	if VerifyWebhookSignature(body, valid, "other_secret") {
		t.Error("signature under wrong secret accepted")
	}

	// Any change to the raw body invalidates the signature.
	tampered := append([]byte{}, body...)
	tampered[0] = ' '
	if VerifyWebhookSignature(tampered, valid, secret) {
		t.Error("signature over tampered body accepted")
	}
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_abc123",
					"order_id": "order_xyz789",
					"amount": 600000,
					"status": "captured"
				}
			}
		}
	}`)

	event, err := ParseWebhookEvent(body)
	if err != nil {
		t.Fatalf("ParseWebhookEvent failed: %v", err)
	}
	if event.Event != EventPaymentCaptured {
		t.Errorf("event = %q, want %q", event.Event, EventPaymentCaptured)
	}
	entity := event.Payload.Payment.Entity
	if entity.ID != "pay_abc123" || entity.OrderID != "order_xyz789" || entity.Amount != 600000 {
		t.Errorf("unexpected entity: %+v", entity)
	}

	if _, err := ParseWebhookEvent([]byte("{broken")); err == nil {
		t.Error("expected error for malformed body")
	}
}
