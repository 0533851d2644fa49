package usecase_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/gateway"
	repo "marketplace/internal/repository"
	"marketplace/internal/usecase"
	"marketplace/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

// =====================
// in-memory Ledger Store
// =====================

// memStore はWithinTxのたびにスナップショットを取り、エラーなら巻き戻す
type memStore struct {
	mu sync.Mutex

	nextID    int64
	orders    map[string]model.Order
	items     map[int64][]model.OrderItem
	payments  []model.Payment
	logistics map[string]model.Logistic
	carts     map[string]model.Cart
	cartItems map[int64][]model.CartItem
	products  map[string]model.Product
	sellers   map[string]model.Seller
	users     map[string]model.User
	audits    []model.AuditLog

	txCount int
}

func newMemStore() *memStore {
	return &memStore{
		orders:    map[string]model.Order{},
		items:     map[int64][]model.OrderItem{},
		logistics: map[string]model.Logistic{},
		carts:     map[string]model.Cart{},
		cartItems: map[int64][]model.CartItem{},
		products:  map[string]model.Product{},
		sellers:   map[string]model.Seller{},
		users:     map[string]model.User{},
	}
}

type memSnapshot struct {
	nextID    int64
	orders    map[string]model.Order
	items     map[int64][]model.OrderItem
	payments  []model.Payment
	logistics map[string]model.Logistic
	cartItems map[int64][]model.CartItem
	audits    []model.AuditLog
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		nextID:    s.nextID,
		orders:    make(map[string]model.Order, len(s.orders)),
		items:     make(map[int64][]model.OrderItem, len(s.items)),
		payments:  append([]model.Payment(nil), s.payments...),
		logistics: make(map[string]model.Logistic, len(s.logistics)),
		cartItems: make(map[int64][]model.CartItem, len(s.cartItems)),
		audits:    append([]model.AuditLog(nil), s.audits...),
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = append([]model.OrderItem(nil), v...)
	}
	for k, v := range s.logistics {
		snap.logistics[k] = v
	}
	for k, v := range s.cartItems {
		snap.cartItems[k] = append([]model.CartItem(nil), v...)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.orders = snap.orders
	s.items = snap.items
	s.payments = snap.payments
	s.logistics = snap.logistics
	s.cartItems = snap.cartItems
	s.audits = snap.audits
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCount++
	snap := s.snapshot()
	if err := fn(memTxRepos{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// テストからの参照用（ロックを取る）
func (s *memStore) order(orderID string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	return o, ok
}

func (s *memStore) paymentCount(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.payments {
		if p.OrderID == orderID {
			n++
		}
	}
	return n
}

func (s *memStore) logisticCount(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logistics[orderID]; ok {
		return 1
	}
	return 0
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) auditActions(orderID string) []model.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.AuditAction
	for _, a := range s.audits {
		if a.ResourceID == orderID {
			out = append(out, a.Action)
		}
	}
	return out
}

// ---- seed helpers ----

func (s *memStore) addProduct(id, sellerID string, price string, status model.ProductStatus) {
	s.products[id] = model.Product{
		ProductID: id,
		Name:      "product " + id,
		Price:     decimal.RequireFromString(price),
		Status:    status,
		SellerID:  sellerID,
	}
}

func (s *memStore) addOrder(o model.Order) {
	s.nextID++
	o.ID = s.nextID
	if o.PaymentMethod == "" {
		o.PaymentMethod = model.PaymentMethodRazorpay
	}
	s.orders[o.OrderID] = o
}

func (s *memStore) addCart(userID string, items ...model.CartItem) int64 {
	s.nextID++
	id := s.nextID
	s.carts[userID] = model.Cart{ID: id, UserID: userID}
	for i := range items {
		s.nextID++
		items[i].ID = s.nextID
		items[i].CartID = id
	}
	s.cartItems[id] = items
	return id
}

// 注文処理の途中でカートに足す用（ロックを取る）
func (s *memStore) addCartItem(cartID int64, item model.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	item.CartID = cartID
	s.cartItems[cartID] = append(s.cartItems[cartID], item)
}

func (s *memStore) cartProductIDs(cartID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, ci := range s.cartItems[cartID] {
		out = append(out, ci.ProductID)
	}
	return out
}

// ---- TxRepos ----

type memTxRepos struct{ s *memStore }

func (r memTxRepos) Orders() repo.OrderRepository         { return memOrders{r.s} }
func (r memTxRepos) OrderItems() repo.OrderItemRepository { return memOrderItems{r.s} }
func (r memTxRepos) Payments() repo.PaymentRepository     { return memPayments{r.s} }
func (r memTxRepos) Logistics() repo.LogisticRepository   { return memLogistics{r.s} }
func (r memTxRepos) Carts() repo.CartRepository           { return memCarts{r.s} }
func (r memTxRepos) CartItems() repo.CartItemRepository   { return memCarts{r.s} }
func (r memTxRepos) Products() repo.ProductRepository     { return memProducts{r.s} }
func (r memTxRepos) AuditLogs() repo.AuditLogRepository   { return memAudits{r.s} }

type memOrders struct{ s *memStore }

func (m memOrders) FindByOrderID(ctx context.Context, orderID string) (model.Order, error) {
	o, ok := m.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (m memOrders) list(match func(model.Order) bool, page, limit int) ([]model.Order, int64, error) {
	var all []model.Order
	for _, o := range m.s.orders {
		if match(o) {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.Order{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m memOrders) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	return m.list(func(o model.Order) bool { return o.UserID == userID }, page, limit)
}

func (m memOrders) ListBySellerID(ctx context.Context, sellerID string, page int, limit int) ([]model.Order, int64, error) {
	return m.list(func(o model.Order) bool { return o.SellerID == sellerID }, page, limit)
}

func (m memOrders) Create(ctx context.Context, order model.Order) (int64, error) {
	if _, dup := m.s.orders[order.OrderID]; dup {
		return 0, repo.ErrDuplicate
	}
	m.s.nextID++
	order.ID = m.s.nextID
	m.s.orders[order.OrderID] = order
	return order.ID, nil
}

func (m memOrders) UpdateStatusIf(ctx context.Context, orderID string, from []model.OrderStatus, to model.OrderStatus, reason string) (bool, error) {
	o, ok := m.s.orders[orderID]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if o.Status == f {
			o.Status = to
			if reason != "" {
				o.CancellationReason = reason
			}
			m.s.orders[orderID] = o
			return true, nil
		}
	}
	return false, nil
}

func (m memOrders) ListPaidWithoutPayment(ctx context.Context, limit int) ([]model.Order, error) {
	paid := map[string]bool{}
	for _, p := range m.s.payments {
		paid[p.OrderID] = true
	}
	var out []model.Order
	for _, o := range m.s.orders {
		if o.PaymentMethod != model.PaymentMethodRazorpay || paid[o.OrderID] {
			continue
		}
		switch o.Status {
		case model.OrderStatusConfirmed, model.OrderStatusShipped, model.OrderStatusDelivered:
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memOrderItems struct{ s *memStore }

func (m memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	for _, it := range items {
		it.OrderID = orderID
		m.s.items[orderID] = append(m.s.items[orderID], it)
	}
	return nil
}

func (m memOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return append([]model.OrderItem{}, m.s.items[orderID]...), nil
}

type memPayments struct{ s *memStore }

func (m memPayments) Create(ctx context.Context, p model.Payment) (int64, error) {
	for _, ex := range m.s.payments {
		if ex.TransactionID == p.TransactionID {
			return 0, repo.ErrDuplicate
		}
	}
	m.s.nextID++
	p.ID = m.s.nextID
	m.s.payments = append(m.s.payments, p)
	return p.ID, nil
}

func (m memPayments) FindByTransactionID(ctx context.Context, transactionID string) (model.Payment, error) {
	for _, p := range m.s.payments {
		if p.TransactionID == transactionID {
			return p, nil
		}
	}
	return model.Payment{}, repo.ErrNotFound
}

func (m memPayments) FindByOrderID(ctx context.Context, orderID string) (model.Payment, error) {
	for _, p := range m.s.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return model.Payment{}, repo.ErrNotFound
}

func (m memPayments) ListByOrderIDs(ctx context.Context, orderIDs []string) ([]model.Payment, error) {
	want := map[string]bool{}
	for _, id := range orderIDs {
		want[id] = true
	}
	var out []model.Payment
	for _, p := range m.s.payments {
		if want[p.OrderID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type memLogistics struct{ s *memStore }

func (m memLogistics) Create(ctx context.Context, l model.Logistic) error {
	if _, dup := m.s.logistics[l.OrderID]; dup {
		return repo.ErrDuplicate
	}
	m.s.logistics[l.OrderID] = l
	return nil
}

func (m memLogistics) FindByOrderID(ctx context.Context, orderID string) (model.Logistic, error) {
	l, ok := m.s.logistics[orderID]
	if !ok {
		return model.Logistic{}, repo.ErrNotFound
	}
	return l, nil
}

func (m memLogistics) UpdateStatus(ctx context.Context, orderID string, status model.LogisticStatus) error {
	l, ok := m.s.logistics[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	l.Status = status
	m.s.logistics[orderID] = l
	return nil
}

type memCarts struct{ s *memStore }

func (m memCarts) FindByUserID(ctx context.Context, userID string) (model.Cart, error) {
	c, ok := m.s.carts[userID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return c, nil
}

func (m memCarts) DeleteByIDs(ctx context.Context, cartID int64, ids []int64) (int64, error) {
	drop := map[int64]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var (
		kept []model.CartItem
		n    int64
	)
	for _, ci := range m.s.cartItems[cartID] {
		if drop[ci.ID] {
			n++
			continue
		}
		kept = append(kept, ci)
	}
	m.s.cartItems[cartID] = kept
	return n, nil
}

func (m memCarts) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	return append([]model.CartItem{}, m.s.cartItems[cartID]...), nil
}

type memProducts struct{ s *memStore }

func (m memProducts) FindByProductID(ctx context.Context, productID string) (model.Product, error) {
	p, ok := m.s.products[productID]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

type memAudits struct{ s *memStore }

func (m memAudits) Create(ctx context.Context, log model.AuditLog) error {
	m.s.nextID++
	log.ID = m.s.nextID
	m.s.audits = append(m.s.audits, log)
	return nil
}

func (m memAudits) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	var out []model.AuditLog
	for _, a := range m.s.audits {
		if filter.ResourceID != nil && a.ResourceID != *filter.ResourceID {
			continue
		}
		if filter.ResourceType != nil && a.ResourceType != *filter.ResourceType {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Tx外で使う読み取り（自分でロックする）
type memSellers struct{ s *memStore }

func (m memSellers) FindBySellerID(ctx context.Context, sellerID string) (model.Seller, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sl, ok := m.s.sellers[sellerID]
	if !ok {
		return model.Seller{}, repo.ErrNotFound
	}
	return sl, nil
}

type memUsers struct{ s *memStore }

func (m memUsers) FindByUserID(ctx context.Context, userID string) (model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[userID]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

type memProductsRO struct{ s *memStore }

func (m memProductsRO) FindByProductID(ctx context.Context, productID string) (model.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return memProducts{m.s}.FindByProductID(ctx, productID)
}

// =====================
// Gateway / Publisher mocks
// =====================

const (
	testSecret = "s3cret"
	testKeyID  = "rzp_test_key"
)

// CreateIntentはmock、署名検証は本物のHMAC
type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (gateway.Intent, error) {
	args := m.Called(ctx, amountMinor, currency, receipt)
	in, _ := args.Get(0).(gateway.Intent)
	return in, args.Error(1)
}

func (m *GatewayMock) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.VerifySignature(testSecret, orderID, paymentID, signature)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, event model.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *PublisherMock) eventTypes() []string {
	var out []string
	for _, c := range m.Calls {
		if c.Method == "Publish" {
			out = append(out, c.Arguments.Get(1).(model.OrderEvent).EventType)
		}
	}
	return out
}

// =====================
// fixture
// =====================

type fixture struct {
	store     *memStore
	gw        *GatewayMock
	events    *PublisherMock
	lifecycle *usecase.OrderLifecycle
	checkout  *usecase.CheckoutUsecase
	queries   *usecase.OrderQueryUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := newMemStore()
	s.users["U1"] = model.User{UserID: "U1", Name: "buyer"}
	s.users["U2"] = model.User{UserID: "U2", Name: "other"}
	s.sellers["S1"] = model.Seller{SellerID: "S1", Name: "shop one"}
	s.sellers["S2"] = model.Seller{SellerID: "S2", Name: "shop two"}
	s.addProduct("P1", "S1", "500", model.ProductStatusAvailable)
	s.addProduct("P2", "S1", "19.99", model.ProductStatusAvailable)
	s.addProduct("P3", "S2", "100", model.ProductStatusAvailable)
	s.addProduct("P9", "S1", "10", model.ProductStatusOutOfStock)

	gw := new(GatewayMock)
	events := new(PublisherMock)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	v := validator.NewOrderValidator(memUsers{s})
	lc := usecase.NewOrderLifecycle(s, memSellers{s}, gw, events, v, zaptest.NewLogger(t), "INR", testKeyID)

	return &fixture{
		store:     s,
		gw:        gw,
		events:    events,
		lifecycle: lc,
		checkout:  usecase.NewCheckoutUsecase(s, lc, v),
		queries:   usecase.NewOrderQueryUsecase(s),
	}
}
