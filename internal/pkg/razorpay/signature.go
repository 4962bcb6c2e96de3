package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayload computes the hex HMAC-SHA256 of payload under secret
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks the signature the gateway hands the browser
// after checkout: HMAC-SHA256 over "orderID|paymentID" under the key secret.
// The comparison is constant-time.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	expected := SignPayload([]byte(orderID+"|"+paymentID), secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks a webhook delivery: HMAC-SHA256 over the
// raw, unparsed body bytes under the webhook secret.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := SignPayload(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
