package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/gateway"
	"storefront/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeGateway struct {
	mu       sync.Mutex
	requests []gateway.OrderRequest
	err      error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Order{ID: fmt.Sprintf("order_gw_%d", len(g.requests)), Entity: "order", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	identity  *IdentityResolver
	cart      *CartStore
	ledger    *OrderLedger
	payments  *PaymentSession
	gateway   *fakeGateway
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	identity := NewIdentityResolver(gdb)
	cart := NewCartStore(gdb)
	gw := &fakeGateway{}
	pub := &recordingPublisher{}
	return &fixture{
		db:        gdb,
		identity:  identity,
		cart:      cart,
		ledger:    NewOrderLedger(gdb, LedgerDeps{Identity: identity, Publisher: pub}),
		payments:  NewPaymentSession(cart, gw, "test_secret", "INR", nil),
		gateway:   gw,
		publisher: pub,
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testAddress = domain.Address{Street: "1 Market St", City: "Pune", State: "MH", Zip: "411001"}

// openIntent opens a gateway order for the user's current cart and returns its id
func openIntent(t *testing.T, f *fixture, userID uint) string {
	t.Helper()
	intent, err := f.payments.CreateIntent(context.Background(), userID)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	return intent.Order.ID
}
