package service

import (
	"context"     // Request scoping
	"crypto/hmac" // Signature computation and constant time compare
	"crypto/sha256"
	"encoding/hex" // Signature encoding
	"strconv"      // Receipt formatting
	"time"         // Receipt timestamps

	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/gateway" // Payment gateway client
	"storefront/internal/metrics" // Gateway call counters

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
)

// PaymentGateway opens payment orders at the provider
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
}

// PaymentIntent is the gateway order plus the server-side cart total it was sized from
type PaymentIntent struct {
	Order *gateway.Order  `json:"order"`
	Total decimal.Decimal `json:"total"`
}

// PaymentSession sizes payment intents from the cart and verifies gateway signatures
type PaymentSession struct {
	cart     *CartStore
	gateway  PaymentGateway
	secret   []byte
	currency string
	metrics  *metrics.Metrics
}

func NewPaymentSession(cart *CartStore, gw PaymentGateway, secret, currency string, m *metrics.Metrics) *PaymentSession {
	return &PaymentSession{cart: cart, gateway: gw, secret: []byte(secret), currency: currency, metrics: m}
}

// MinorUnits converts an amount to the provider's minor currency unit
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// CreateIntent asks the gateway for a payment order sized to the user's cart
func (p *PaymentSession) CreateIntent(ctx context.Context, userID uint) (*PaymentIntent, error) {
	total, err := p.cart.TotalValue(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, domain.NewError(domain.KindEmptyCart, "Cart is empty")
	}
	req := gateway.OrderRequest{
		Amount:   MinorUnits(total),
		Currency: p.currency,
		Receipt:  "rcpt_" + strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	order, err := p.gateway.CreateOrder(ctx, req)
	if err != nil {
		p.metrics.GatewayCall("error")
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // Requesting user
			"amount":  req.Amount,  // Minor units
			"error":   err.Error(), // Gateway error
		}).Error("Payment intent failed")
		return nil, domain.WrapError(domain.KindGatewayFailure, "Payment order failed", err)
	}
	p.metrics.GatewayCall("ok")
	// Placement checks the paid order against this record
	record := domain.GatewayIntent{OrderRef: order.ID, UserID: userID, Amount: req.Amount, Currency: req.Currency}
	if err := p.cart.db.WithContext(ctx).Create(&record).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,      // Requesting user
			"order_id": order.ID,    // Gateway order id
			"error":    err.Error(), // Error message
		}).Error("Failed to record payment intent")
		return nil, domain.StorageError("Failed to record payment intent", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,       // Requesting user
		"order_id": order.ID,     // Gateway order id
		"amount":   req.Amount,   // Minor units
		"currency": req.Currency, // Currency
	}).Info("Payment intent created")
	return &PaymentIntent{Order: order, Total: total}, nil
}

// Sign computes the hex HMAC-SHA256 of orderRef|paymentRef
func (p *PaymentSession) Sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches orderRef|paymentRef, comparing in constant time
func (p *PaymentSession) VerifySignature(orderRef, paymentRef, signature string) bool {
	expected := p.Sign(orderRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(signature))
}
