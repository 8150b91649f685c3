package utils

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PaymentGateway is a thin client for a hosted-checkout gateway: it creates
// remote orders, issues payment links against them, and re-fetches link
// status so payment verification never trusts the client.
type PaymentGateway struct {
	baseURL string
	keyID   string
	secret  string
	client  *http.Client
}

func NewPaymentGateway(baseURL, keyID, secret string) *PaymentGateway {
	return &PaymentGateway{
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// GatewayOrder is the remote order object, correlated to the local Order by
// the receipt number.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentLink is a hosted checkout page for one order amount.
type PaymentLink struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	AmountPaid  int64  `json:"amount_paid"`
	CreatedAt   int64  `json:"created_at"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	OrderID     string `json:"order_id"`
	ReferenceID string `json:"reference_id"`
	ShortURL    string `json:"short_url"`
	Status      string `json:"status"`
	Customer    struct {
		Contact string `json:"contact"`
		Email   string `json:"email"`
		Name    string `json:"name"`
	} `json:"customer"`
}

// LinkStatusPaid is the gateway's terminal success status for a link.
const LinkStatusPaid = "paid"

func (g *PaymentGateway) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.SetBasicAuth(g.keyID, g.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway %s %s: status %d: %s", method, path, resp.StatusCode, b)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// CreateOrder registers the amount with the gateway under the given receipt.
func (g *PaymentGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	req := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	var order GatewayOrder
	if err := g.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreatePaymentLink issues a hosted checkout link referencing a gateway order.
func (g *PaymentGateway) CreatePaymentLink(ctx context.Context, amount int64, currency, referenceID, description, callbackURL string, name, email, contact string) (*PaymentLink, error) {
	req := map[string]any{
		"amount":       amount,
		"currency":     currency,
		"reference_id": referenceID,
		"description":  description,
		"customer": map[string]string{
			"name":    name,
			"email":   email,
			"contact": contact,
		},
		"callback_url":    callbackURL,
		"callback_method": "get",
		"notify": map[string]bool{
			"email": true,
			"sms":   true,
		},
	}
	var link PaymentLink
	if err := g.do(ctx, http.MethodPost, "/payment_links", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// FetchPaymentLink re-reads the link from the gateway. Verification relies on
// this, never on client-supplied status.
func (g *PaymentGateway) FetchPaymentLink(ctx context.Context, linkID string) (*PaymentLink, error) {
	var link PaymentLink
	if err := g.do(ctx, http.MethodGet, "/payment_links/"+linkID, nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GenerateSignature reproduces the gateway's HMAC-SHA256 over
// "orderID|paymentID" for callback verification.
func GenerateSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a client-supplied signature in constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := GenerateSignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
