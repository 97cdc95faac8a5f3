package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payment is manual: the customer transfers the order total themselves and
// quotes a reference number. Nothing here talks to a payment processor.

// Payment methods accepted by the storefront.
const (
	PaymentWave      = "wave"
	PaymentTrustBank = "trustBank"
)

// PaymentDetails are the transfer instructions shown at checkout.
type PaymentDetails struct {
	AccountNumber string
	AccountName   string
	Branch        string
	Instructions  string
}

// GeneratePaymentReference builds a reference the customer quotes with the
// transfer, e.g. "MARCHE-483920-A7C". An empty prefix defaults to MARCHE.
func GeneratePaymentReference(prefix string) string {
	if prefix == "" {
		prefix = "MARCHE"
	}
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:3])
	return fmt.Sprintf("%s-%s-%s", prefix, ts, random)
}

// PaymentDetailsFor returns the transfer instructions for a payment method,
// or false if the method is unknown.
func PaymentDetailsFor(method string) (PaymentDetails, bool) {
	switch method {
	case PaymentWave:
		return PaymentDetails{
			AccountNumber: "+220 123 4567",
			AccountName:   "Marché Business",
			Instructions:  "Send via Wave mobile app with reference number",
		}, true
	case PaymentTrustBank:
		return PaymentDetails{
			AccountNumber: "1234567890",
			AccountName:   "Marché Enterprises",
			Branch:        "Banjul Main Branch",
			Instructions:  "Transfer to bank account with reference number",
		}, true
	}
	return PaymentDetails{}, false
}
