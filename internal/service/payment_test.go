package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntentEmptyCart(t *testing.T) {
	f := newFixture(t)
	u := testutil.CreateUser(t, f.db, "u1@example.com", "password1", false)

	_, err := f.payments.CreateIntent(context.Background(), u.ID)
	assert.True(t, domain.IsKind(err, domain.KindEmptyCart))
	assert.Empty(t, f.gateway.requests, "no gateway call for an empty cart")
}

func TestCreateIntentUsesServerTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "u1@example.com", "password1", false)
	require.NoError(t, f.cart.AddItem(ctx, u.ID, "Widget", price("10"), "", 2))
	require.NoError(t, f.cart.AddItem(ctx, u.ID, "Gadget", price("0.99"), "", 1))

	intent, err := f.payments.CreateIntent(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.99", intent.Total.StringFixed(2))
	assert.Equal(t, "order_gw_1", intent.Order.ID)
	require.Len(t, f.gateway.requests, 1)
	assert.Equal(t, int64(2099), f.gateway.requests[0].Amount)
	assert.Equal(t, "INR", f.gateway.requests[0].Currency)
	assert.True(t, strings.HasPrefix(f.gateway.requests[0].Receipt, "rcpt_"))

	var record domain.GatewayIntent
	require.NoError(t, f.db.Where("order_ref = ?", "order_gw_1").First(&record).Error)
	assert.Equal(t, u.ID, record.UserID)
	assert.Equal(t, int64(2099), record.Amount)
	assert.Equal(t, "INR", record.Currency)
}

func TestCreateIntentGatewayFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, f.db, "u1@example.com", "password1", false)
	require.NoError(t, f.cart.AddItem(ctx, u.ID, "Widget", price("10"), "", 1))
	f.gateway.err = errors.New("connection reset")

	_, err := f.payments.CreateIntent(ctx, u.ID)
	assert.True(t, domain.IsKind(err, domain.KindGatewayFailure))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(3000), MinorUnits(price("30")))
	assert.Equal(t, int64(1999), MinorUnits(price("19.99")))
	assert.Equal(t, int64(1000), MinorUnits(price("9.995")))
}

func TestVerifySignature(t *testing.T) {
	p := NewPaymentSession(nil, nil, "shh", "INR", nil)
	pairs := [][2]string{{"order_A", "pay_B"}, {"", ""}, {"order|x", "pay"}, {"order_long_reference_123", "pay_Z9"}}

	for _, pr := range pairs {
		sig := p.Sign(pr[0], pr[1])
		assert.True(t, p.VerifySignature(pr[0], pr[1], sig))

		// Every single-bit mutation of the signature must fail
		raw := []byte(sig)
		for i := range raw {
			for bit := 0; bit < 8; bit++ {
				mutated := append([]byte(nil), raw...)
				mutated[i] ^= 1 << bit
				assert.False(t, p.VerifySignature(pr[0], pr[1], string(mutated)))
			}
		}
	}
}

func TestVerifySignatureBindsBothRefsAndSecret(t *testing.T) {
	p := NewPaymentSession(nil, nil, "shh", "INR", nil)
	other := NewPaymentSession(nil, nil, "different", "INR", nil)
	sig := p.Sign("order_A", "pay_B")

	assert.False(t, p.VerifySignature("order_B", "pay_A", sig))
	assert.False(t, p.VerifySignature("order_A", "pay_C", sig))
	assert.False(t, other.VerifySignature("order_A", "pay_B", sig))
	assert.False(t, p.VerifySignature("order_A", "pay_B", ""))
}
