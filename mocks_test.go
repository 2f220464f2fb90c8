package storefront_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/goliatone/go-storefront"
)

// memStore is an in-memory storefront.RepositoryManager
type memStore struct {
	mu       sync.Mutex
	users    map[string]*storefront.User
	coupons  map[string]*storefront.Coupon
	carts    map[string]*storefront.Cart
	products map[string]*storefront.Product

	// failWith makes every call return the error
	failWith error
	creates  int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*storefront.User{},
		coupons:  map[string]*storefront.Coupon{},
		carts:    map[string]*storefront.Cart{},
		products: map[string]*storefront.Product{},
	}
}

func (s *memStore) Validate() error               { return nil }
func (s *memStore) Users() storefront.Users       { return memUsers{s} }
func (s *memStore) Coupons() storefront.Coupons   { return memCoupons{s} }
func (s *memStore) Carts() storefront.Carts       { return memCarts{s} }
func (s *memStore) Products() storefront.Products { return memProducts{s} }

func (s *memStore) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func miss(meta map[string]any) error {
	return storefront.ErrRecordNotFound.Clone().WithMetadata(meta)
}

func copyUser(u *storefront.User) *storefront.User {
	c := *u
	c.Wishlist = append([]string{}, u.Wishlist...)
	return &c
}

func copyCart(c *storefront.Cart) *storefront.Cart {
	cp := *c
	return &cp
}

func copyCoupon(c *storefront.Coupon) *storefront.Coupon {
	cp := *c
	return &cp
}

func copyProduct(p *storefront.Product) *storefront.Product {
	cp := *p
	return &cp
}

func (s *memStore) seedUser(name, email, password string, role storefront.UserRole) *storefront.User {
	hash, err := storefront.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := &storefront.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        storefront.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		Wishlist:     []string{},
	}
	s.mu.Lock()
	s.users[user.ID.String()] = user
	s.mu.Unlock()
	return copyUser(user)
}

func (s *memStore) user(id string) *storefront.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u)
	}
	return nil
}

type memUsers struct{ s *memStore }

func (m memUsers) GetByEmail(_ context.Context, email string) (*storefront.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	for _, u := range m.s.users {
		if u.Email == storefront.NormalizeEmail(email) {
			return copyUser(u), nil
		}
	}
	return nil, miss(map[string]any{"email": email})
}

func (m memUsers) GetByID(_ context.Context, id string) (*storefront.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if u, ok := m.s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, miss(map[string]any{"id": id})
}

func (m memUsers) Create(_ context.Context, user *storefront.User) (*storefront.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return nil, storefront.ErrDuplicateAccount
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	stored := copyUser(user)
	stored.CreatedAt = &now
	m.s.users[stored.ID.String()] = stored
	m.s.creates++
	return copyUser(stored), nil
}

func (m memUsers) update(id string, fn func(u *storefront.User)) (*storefront.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	u, ok := m.s.users[id]
	if !ok {
		return nil, miss(map[string]any{"id": id})
	}
	fn(u)
	return copyUser(u), nil
}

func (m memUsers) UpdatePassword(_ context.Context, id, hash string) (*storefront.User, error) {
	return m.update(id, func(u *storefront.User) { u.PasswordHash = hash })
}

func (m memUsers) UpdateProfile(_ context.Context, id, name, sex string) (*storefront.User, error) {
	return m.update(id, func(u *storefront.User) { u.Name, u.Sex = name, sex })
}

func (m memUsers) UpdateAvatar(_ context.Context, id, avatar string) (*storefront.User, error) {
	return m.update(id, func(u *storefront.User) { u.Avatar = avatar })
}

func (m memUsers) SaveAddress(_ context.Context, id, address, payment string) (*storefront.User, error) {
	return m.update(id, func(u *storefront.User) { u.Address, u.PaymentMethod = address, payment })
}

func (m memUsers) AddToWishlist(_ context.Context, id, productID string) error {
	_, err := m.update(id, func(u *storefront.User) {
		for _, p := range u.Wishlist {
			if p == productID {
				return
			}
		}
		u.Wishlist = append(u.Wishlist, productID)
	})
	return err
}

func (m memUsers) RemoveFromWishlist(_ context.Context, id, productID string) error {
	_, err := m.update(id, func(u *storefront.User) {
		out := u.Wishlist[:0]
		for _, p := range u.Wishlist {
			if p != productID {
				out = append(out, p)
			}
		}
		u.Wishlist = out
	})
	return err
}

type memCoupons struct{ s *memStore }

func (m memCoupons) GetByName(_ context.Context, name string) (*storefront.Coupon, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.coupons[storefront.NormalizeCouponName(name)]; ok {
		return copyCoupon(c), nil
	}
	return nil, miss(map[string]any{"name": name})
}

func (m memCoupons) Create(_ context.Context, coupon *storefront.Coupon) (*storefront.Coupon, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	name := storefront.NormalizeCouponName(coupon.Name)
	if _, ok := m.s.coupons[name]; ok {
		return nil, storefront.ErrDuplicateCoupon
	}
	stored := copyCoupon(coupon)
	stored.Name = name
	m.s.coupons[name] = stored
	return copyCoupon(stored), nil
}

type memCarts struct{ s *memStore }

func (m memCarts) GetByOwner(_ context.Context, userID string) (*storefront.Cart, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.carts[userID]; ok {
		return copyCart(c), nil
	}
	return nil, miss(map[string]any{"order_by": userID})
}

func (m memCarts) Save(_ context.Context, cart *storefront.Cart) (*storefront.Cart, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	m.s.carts[cart.OrderBy.String()] = copyCart(cart)
	return copyCart(cart), nil
}

func (m memCarts) SetTotalAfterDiscount(_ context.Context, cartID string, total float64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.carts {
		if c.ID.String() == cartID {
			c.TotalAfterDiscount = total
			return nil
		}
	}
	return miss(map[string]any{"id": cartID})
}

type memProducts struct{ s *memStore }

func (m memProducts) GetByIDs(_ context.Context, ids []string) ([]*storefront.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []*storefront.Product{}
	for _, id := range ids {
		if p, ok := m.s.products[id]; ok {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (m memProducts) Create(_ context.Context, product *storefront.Product) (*storefront.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m.s.products[product.ID.String()] = copyProduct(product)
	return copyProduct(product), nil
}

// captureMailer records every mail sent
type captureMailer struct {
	mu   sync.Mutex
	sent []storefront.Mail
	err  error
}

func (m *captureMailer) Send(_ context.Context, mail storefront.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return m.err
}

func (m *captureMailer) last() storefront.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return storefront.Mail{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// MockOAuthVerifier implements storefront.OAuthVerifier
type MockOAuthVerifier struct {
	mock.Mock
}

func (m *MockOAuthVerifier) Verify(ctx context.Context, idToken string) (*storefront.OAuthClaims, error) {
	args := m.Called(ctx, idToken)
	claims, _ := args.Get(0).(*storefront.OAuthClaims)
	return claims, args.Error(1)
}

// MockLogger implements storefront.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) { m.Called(format, args) }
func (m *MockLogger) Info(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Warn(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Error(format string, args ...any) { m.Called(format, args) }

func newQuietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything, mock.Anything).Maybe()
	l.On("Info", mock.Anything, mock.Anything).Maybe()
	l.On("Warn", mock.Anything, mock.Anything).Maybe()
	l.On("Error", mock.Anything, mock.Anything).Maybe()
	return l
}

var testOptions = storefront.Options{
	SigningKey:           "access-secret",
	RefreshSigningKey:    "refresh-secret",
	ActivationSigningKey: "activation-secret",
	Issuer:               "storefront-test",
	ClientURL:            "http://localhost:3000",
	GoogleLoginSecret:    "google-secret",
}

// fixture wires a flow over an in-memory store
type fixture struct {
	store  *memStore
	mailer *captureMailer
	oauth  *MockOAuthVerifier
	tokens *storefront.TokenServiceImpl
	flow   *storefront.AuthFlow
	carts  *storefront.CartAdjuster
	now    time.Time
}

func newFixture() *fixture {
	fx := &fixture{
		store:  newMemStore(),
		mailer: &captureMailer{},
		oauth:  &MockOAuthVerifier{},
		now:    time.Now(),
	}
	logger := newQuietLogger()
	fx.tokens = storefront.NewTokenService(testOptions, logger)
	fx.flow = storefront.NewAuthFlow(testOptions, fx.store, fx.tokens).
		WithLogger(logger).
		WithMailer(fx.mailer).
		WithOAuthVerifier(fx.oauth)
	fx.carts = storefront.NewCartAdjuster(fx.store).
		WithLogger(logger).
		WithClock(func() time.Time { return fx.now })
	return fx
}

// tokenFromLink returns the last path segment of an emailed link
func tokenFromLink(link string) string {
	for i := len(link) - 1; i >= 0; i-- {
		if link[i] == '/' {
			return link[i+1:]
		}
	}
	return link
}
