package service

import (
	"context" // Request scoping
	"errors"  // Error inspection
	"strconv" // Cache keys
	"strings" // Input trimming
	"time"    // Timestamps and TTLs

	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/events"  // Order event publishing
	"storefront/internal/metrics" // Domain counters
	"storefront/internal/utils"   // Cache helpers

	"github.com/google/uuid"        // Local order identifiers
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

const (
	maxTrackingStatusLen = 64
	adminOrdersPrefix    = "admin:orders:"
)

// PaymentOutcome is either a verified gateway payment or a manual order
type PaymentOutcome struct {
	paid       bool
	OrderRef   string // Gateway order id, paid outcomes only
	PaymentRef string // Gateway payment id, paid outcomes only
}

// Paid is the outcome of a verified gateway payment
func Paid(orderRef, paymentRef string) PaymentOutcome {
	return PaymentOutcome{paid: true, OrderRef: orderRef, PaymentRef: paymentRef}
}

// Manual is the outcome of an order recorded without payment, e.g. cash on delivery
func Manual() PaymentOutcome {
	return PaymentOutcome{}
}

func (o PaymentOutcome) IsPaid() bool { return o.paid }

// PlaceOrderRequest is the input of PlaceOrder
type PlaceOrderRequest struct {
	UserID         uint
	Address        domain.Address
	Outcome        PaymentOutcome
	IdempotencyKey string // Optional, replays the earlier order when reused
}

// PlacedOrder describes the order a PlaceOrder call produced or replayed
type PlacedOrder struct {
	OrderID       string               `json:"order_id"`
	PaymentID     string               `json:"payment_id"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	Total         string               `json:"total"`
	Replayed      bool                 `json:"replayed"`
}

// OrderView is an order with its tracking history, oldest event first
type OrderView struct {
	domain.Order
	Tracking []domain.TrackingEvent `json:"tracking"`
}

// OrderFilter selects orders for the admin listing
type OrderFilter struct {
	TrackingStatus string
	Page           int
	PageSize       int
}

// OrderPage is one page of the admin listing
type OrderPage struct {
	Orders     []OrderView `json:"orders"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

// LedgerDeps are the collaborators of the ledger besides the database
type LedgerDeps struct {
	Identity  *IdentityResolver
	Cache     *redis.Client // Optional order listing cache
	CacheTTL  time.Duration
	Publisher events.Publisher
	Metrics   *metrics.Metrics
}

// OrderLedger turns carts into orders and records tracking history
type OrderLedger struct {
	db        *gorm.DB
	identity  *IdentityResolver
	rdb       *redis.Client
	cacheTTL  time.Duration
	publisher events.Publisher
	metrics   *metrics.Metrics
}

func NewOrderLedger(db *gorm.DB, deps LedgerDeps) *OrderLedger {
	identity := deps.Identity
	if identity == nil {
		identity = NewIdentityResolver(db)
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &OrderLedger{db: db, identity: identity, rdb: deps.Cache, cacheTTL: ttl, publisher: publisher, metrics: deps.Metrics}
}

func userOrdersKey(userID uint) string {
	return "orders:user:" + strconv.FormatUint(uint64(userID), 10)
}

// newLocalRef builds a time-ordered, collision resistant identifier
func newLocalRef(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + id.String()
}

// PlaceOrder snapshots the user's cart into a new order. The order row, its first tracking
// event and, for paid outcomes, the cart clear commit together.
func (l *OrderLedger) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlacedOrder, error) {
	if !req.Address.Valid() {
		return nil, domain.NewError(domain.KindInvalidInput, "Shipping address requires street, city, state and zip")
	}
	outcome := req.Outcome
	if outcome.IsPaid() && (strings.TrimSpace(outcome.OrderRef) == "" || strings.TrimSpace(outcome.PaymentRef) == "") {
		return nil, domain.NewError(domain.KindInvalidInput, "Paid orders need gateway order and payment ids")
	}
	key := strings.TrimSpace(req.IdempotencyKey)

	var placed *PlacedOrder
	var created *domain.Order
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findReplay(tx, req.UserID, outcome, key)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.UserID != req.UserID {
				return domain.NewError(domain.KindInvalidInput, "Order reference already used")
			}
			// A retried paid placement still owes the cart clear
			if existing.PaymentStatus == domain.PaymentStatusPaid {
				if err := clearCart(tx, req.UserID); err != nil {
					return err
				}
			}
			placed = placedFrom(existing, true)
			return nil
		}

		items, err := listCart(tx, req.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.NewError(domain.KindEmptyCart, "Cart is empty")
		}
		snapshot, total, err := domain.SnapshotCart(items)
		if err != nil {
			return domain.StorageError("Failed to snapshot cart", err)
		}
		if outcome.IsPaid() {
			if err := checkIntent(tx, req.UserID, outcome.OrderRef, total); err != nil {
				return err
			}
		}

		order := domain.Order{
			UserID:         req.UserID,
			Items:          snapshot,
			Total:          total,
			TrackingStatus: domain.TrackingStatusPending, // Tracking starts pending whatever the payment
			Address:        req.Address,
		}
		if outcome.IsPaid() {
			order.OrderRef = outcome.OrderRef
			order.PaymentRef = outcome.PaymentRef
			order.PaymentStatus = domain.PaymentStatusPaid
		} else {
			order.OrderRef = newLocalRef("order_")
			order.PaymentRef = newLocalRef("pay_")
			order.PaymentStatus = domain.PaymentStatusPending
		}
		if key != "" {
			order.IdempotencyKey = &key
		}
		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewError(domain.KindInvalidInput, "Order reference already used")
			}
			return domain.StorageError("Failed to create order", err)
		}
		if err := tx.Create(&domain.TrackingEvent{OrderRef: order.OrderRef, Status: domain.TrackingStatusPending}).Error; err != nil {
			return domain.StorageError("Failed to record tracking event", err)
		}
		// Manual orders leave the cart alone until payment clears
		if outcome.IsPaid() {
			if err := clearCart(tx, req.UserID); err != nil {
				return err
			}
		}
		created = &order
		placed = placedFrom(&order, false)
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": req.UserID,       // Ordering user
			"paid":    outcome.IsPaid(), // Payment outcome
			"error":   err.Error(),      // Error message
		}).Error("Order placement failed")
		return nil, err
	}
	if placed.Replayed {
		logrus.WithFields(logrus.Fields{
			"user_id":  req.UserID,     // Ordering user
			"order_id": placed.OrderID, // Replayed order
		}).Info("Order placement replayed")
		return placed, nil
	}

	l.invalidate(ctx, req.UserID)
	l.publish(ctx, events.OrderEvent{
		Type:           events.TypeOrderPlaced,
		OrderRef:       created.OrderRef,
		UserID:         created.UserID,
		PaymentStatus:  string(created.PaymentStatus),
		TrackingStatus: created.TrackingStatus,
		Total:          created.Total.StringFixed(2),
		OccurredAt:     created.CreatedAt,
	})
	l.metrics.OrderPlaced(string(created.PaymentStatus))
	logrus.WithFields(logrus.Fields{
		"user_id":        created.UserID,                  // Ordering user
		"order_id":       created.OrderRef,                // Order id
		"payment_status": created.PaymentStatus,           // paid or pending
		"total":          created.Total.StringFixed(2),    // Order total
		"timestamp":      time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Order placed")
	return placed, nil
}

// findReplay looks for an order an earlier attempt of the same placement already created
func findReplay(tx *gorm.DB, userID uint, outcome PaymentOutcome, key string) (*domain.Order, error) {
	var order domain.Order
	if outcome.IsPaid() {
		err := tx.Where("order_ref = ?", outcome.OrderRef).First(&order).Error
		if err == nil {
			return &order, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.StorageError("Failed to fetch order", err)
		}
	}
	if key == "" {
		return nil, nil
	}
	err := tx.Where("user_id = ? AND idempotency_key = ?", userID, key).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError("Failed to fetch order", err)
	}
	if !sameOutcome(&order, outcome) {
		return nil, domain.NewError(domain.KindInvalidInput, "Idempotency key already used for a different order")
	}
	return &order, nil
}

// sameOutcome reports whether an order was placed with the given payment outcome
func sameOutcome(o *domain.Order, outcome PaymentOutcome) bool {
	if outcome.IsPaid() {
		return o.PaymentStatus == domain.PaymentStatusPaid && o.OrderRef == outcome.OrderRef
	}
	return o.PaymentStatus == domain.PaymentStatusPending
}

// checkIntent ties a paid placement to the intent the gateway order was opened for
func checkIntent(tx *gorm.DB, userID uint, orderRef string, total decimal.Decimal) error {
	var intent domain.GatewayIntent
	if err := tx.Where("order_ref = ?", orderRef).First(&intent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewError(domain.KindInvalidInput, "Unknown payment order")
		}
		return domain.StorageError("Failed to fetch payment intent", err)
	}
	if intent.UserID != userID {
		return domain.NewError(domain.KindInvalidInput, "Payment order belongs to another user")
	}
	if intent.Amount != MinorUnits(total) {
		return domain.NewError(domain.KindInvalidInput, "Payment amount does not match cart total")
	}
	return nil
}

func placedFrom(o *domain.Order, replayed bool) *PlacedOrder {
	return &PlacedOrder{
		OrderID:       o.OrderRef,
		PaymentID:     o.PaymentRef,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total.StringFixed(2),
		Replayed:      replayed,
	}
}

// UpdateTracking sets an order's tracking status and appends the matching history event.
// Only admins may call it. Any non-empty status is accepted.
func (l *OrderLedger) UpdateTracking(ctx context.Context, actorID uint, orderRef, status string) (*domain.TrackingEvent, error) {
	actor, err := l.identity.Lookup(ctx, actorID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewError(domain.KindPermissionDenied, "Admin access required")
		}
		return nil, err
	}
	if !actor.IsAdmin {
		logrus.WithFields(logrus.Fields{
			"actor_id": actorID,  // Rejected actor
			"order_id": orderRef, // Target order
		}).Warn("Tracking update denied")
		return nil, domain.NewError(domain.KindPermissionDenied, "Admin access required")
	}
	status = strings.TrimSpace(status)
	if status == "" || len(status) > maxTrackingStatusLen {
		return nil, domain.NewError(domain.KindInvalidInput, "Status must be 1-64 characters")
	}

	var order domain.Order
	var ev domain.TrackingEvent
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_ref = ?", orderRef).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewError(domain.KindNotFound, "Order not found")
			}
			return domain.StorageError("Failed to fetch order", err)
		}
		if err := tx.Model(&order).Updates(map[string]any{"tracking_status": status, "updated_at": time.Now()}).Error; err != nil {
			return domain.StorageError("Failed to update tracking status", err)
		}
		ev = domain.TrackingEvent{OrderRef: order.OrderRef, Status: status}
		if err := tx.Create(&ev).Error; err != nil {
			return domain.StorageError("Failed to record tracking event", err)
		}
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"actor_id": actorID,     // Admin
			"order_id": orderRef,    // Target order
			"status":   status,      // Requested status
			"error":    err.Error(), // Error message
		}).Error("Tracking update failed")
		return nil, err
	}

	l.invalidate(ctx, order.UserID)
	l.publish(ctx, events.OrderEvent{
		Type:           events.TypeTrackingUpdated,
		OrderRef:       order.OrderRef,
		UserID:         order.UserID,
		TrackingStatus: status,
		OccurredAt:     ev.CreatedAt,
	})
	l.metrics.TrackingUpdated()
	logrus.WithFields(logrus.Fields{
		"actor_id": actorID,        // Admin
		"order_id": order.OrderRef, // Updated order
		"status":   status,         // New tracking status
	}).Info("Tracking status updated")
	return &ev, nil
}

// ListOrders returns the user's orders newest first, each with its tracking history oldest first
func (l *OrderLedger) ListOrders(ctx context.Context, userID uint) ([]OrderView, error) {
	key := userOrdersKey(userID)
	var cached []OrderView
	if found, err := utils.GetCache(ctx, l.rdb, key, &cached); err == nil && found {
		return cached, nil
	}

	var orders []domain.Order
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		return nil, domain.StorageError("Failed to fetch orders", err)
	}
	views, err := l.attachTracking(ctx, orders)
	if err != nil {
		return nil, err
	}
	_ = utils.SetCache(ctx, l.rdb, key, views, l.cacheTTL)
	return views, nil
}

// ListAllOrders pages through every order, optionally filtered by tracking status
func (l *OrderLedger) ListAllOrders(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	if f.Page <= 0 {
		f.Page = 1 // Default page number
	}
	if f.PageSize <= 0 || f.PageSize > 100 {
		f.PageSize = 20 // Default page size
	}
	status := strings.TrimSpace(f.TrackingStatus)
	cacheKey := adminOrdersPrefix + "status=" + status + ":page=" + strconv.Itoa(f.Page) + ":size=" + strconv.Itoa(f.PageSize)
	var cached OrderPage
	if found, err := utils.GetCache(ctx, l.rdb, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	// Count and Find each get a fresh statement
	filtered := func() *gorm.DB {
		query := l.db.WithContext(ctx).Model(&domain.Order{})
		if status != "" {
			query = query.Where("tracking_status = ?", status) // Filter by tracking status
		}
		return query
	}
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, domain.StorageError("Failed to count orders", err)
	}
	var orders []domain.Order
	offset := (f.Page - 1) * f.PageSize
	if err := filtered().Order("created_at desc, id desc").Offset(offset).Limit(f.PageSize).Find(&orders).Error; err != nil {
		return nil, domain.StorageError("Failed to fetch orders", err)
	}
	views, err := l.attachTracking(ctx, orders)
	if err != nil {
		return nil, err
	}
	page := &OrderPage{
		Orders:     views,
		Page:       f.Page,
		PageSize:   f.PageSize,
		Total:      total,
		TotalPages: (int(total) + f.PageSize - 1) / f.PageSize,
	}
	_ = utils.SetCache(ctx, l.rdb, cacheKey, page, l.cacheTTL)
	return page, nil
}

// attachTracking loads the history of all orders in one query
func (l *OrderLedger) attachTracking(ctx context.Context, orders []domain.Order) ([]OrderView, error) {
	views := make([]OrderView, len(orders))
	if len(orders) == 0 {
		return views, nil
	}
	refs := make([]string, len(orders))
	for i, o := range orders {
		refs[i] = o.OrderRef
	}
	var evs []domain.TrackingEvent
	if err := l.db.WithContext(ctx).Where("order_ref IN ?", refs).Order("created_at asc, id asc").Find(&evs).Error; err != nil {
		return nil, domain.StorageError("Failed to fetch tracking history", err)
	}
	byRef := make(map[string][]domain.TrackingEvent, len(orders))
	for _, ev := range evs {
		byRef[ev.OrderRef] = append(byRef[ev.OrderRef], ev)
	}
	for i, o := range orders {
		history := byRef[o.OrderRef]
		if history == nil {
			history = []domain.TrackingEvent{}
		}
		views[i] = OrderView{Order: o, Tracking: history}
	}
	return views, nil
}

// invalidate drops cached listings that may include the user's orders
func (l *OrderLedger) invalidate(ctx context.Context, userID uint) {
	if err := utils.DeleteCache(ctx, l.rdb, userOrdersKey(userID)); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Order cache invalidation failed")
	}
	if err := utils.DeleteCachePrefix(ctx, l.rdb, adminOrdersPrefix); err != nil {
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Admin order cache invalidation failed")
	}
}

// publish emits an event after commit. Failures are logged, the order already exists.
func (l *OrderLedger) publish(ctx context.Context, ev events.OrderEvent) {
	if err := l.publisher.Publish(ctx, ev); err != nil {
		logrus.WithFields(logrus.Fields{
			"type":     ev.Type,     // Event type
			"order_id": ev.OrderRef, // Order id
			"error":    err.Error(), // Error message
		}).Warn("Order event publish failed")
	}
}
