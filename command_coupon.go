package storefront

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// CartAdjuster applies discount coupons to carts and manages coupons
type CartAdjuster struct {
	repo    RepositoryManager
	logger  Logger
	now     func() time.Time
	timeout time.Duration
}

func NewCartAdjuster(repo RepositoryManager) *CartAdjuster {
	return &CartAdjuster{
		repo:    repo,
		logger:  defLogger{},
		now:     time.Now,
		timeout: DefaultFlowTimeout,
	}
}

func (c *CartAdjuster) WithLogger(logger Logger) *CartAdjuster {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithClock replaces the time source used for coupon expiry checks
func (c *CartAdjuster) WithClock(now func() time.Time) *CartAdjuster {
	if now != nil {
		c.now = now
	}
	return c
}

type ApplyCouponMessage struct {
	UserID string `json:"-"`
	Coupon string `json:"coupon" example:"SUMMER10"`
}

func (e ApplyCouponMessage) Type() string { return "cart.coupon.apply" }

type ApplyCouponResponse struct {
	Value float64 `json:"value"`
}

// ApplyCoupon sets the cart total after discount. Unknown or expired
// coupons leave the cart untouched. Concurrent applications are last
// write wins.
func (c *CartAdjuster) ApplyCoupon(ctx context.Context, msg ApplyCouponMessage) (*ApplyCouponResponse, error) {
	var resp *ApplyCouponResponse
	err := runWithTimeout(ctx, c.timeout, "coupon apply", func(ctx context.Context) error {
		name := NormalizeCouponName(msg.Coupon)
		if name == "" {
			return ErrInvalidCoupon
		}

		coupon, err := c.repo.Coupons().GetByName(ctx, name)
		if err != nil {
			if IsNotFound(err) {
				return ErrInvalidCoupon
			}
			return internalError(err, "failed to retrieve coupon")
		}

		if coupon.Expired(c.now()) {
			c.logger.Debug("coupon expired", "coupon", coupon.Name, "expiry", coupon.Expiry)
			return ErrInvalidCoupon
		}

		cart, err := c.repo.Carts().GetByOwner(ctx, msg.UserID)
		if err != nil {
			if IsNotFound(err) {
				return ErrCartNotFound
			}
			return internalError(err, "failed to retrieve cart")
		}

		total := ApplyDiscount(cart.CartTotal, coupon.Discount)
		if err := c.repo.Carts().SetTotalAfterDiscount(ctx, cart.ID.String(), total); err != nil {
			return internalError(err, "failed to update cart")
		}

		resp = &ApplyCouponResponse{Value: total}
		return nil
	})
	return resp, err
}

type CreateCouponMessage struct {
	Name     string    `json:"name" example:"SUMMER10"`
	Discount float64   `json:"discount" example:"10"`
	Expiry   time.Time `json:"expiry"`
}

func (e CreateCouponMessage) Type() string { return "cart.coupon.create" }

func (e CreateCouponMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(4, 20)),
		validation.Field(&e.Discount, validation.Required, validation.Min(0.01), validation.Max(100.0)),
		validation.Field(&e.Expiry, validation.Required),
	)
}

// CreateCoupon stores a new coupon. Names are stored upper-cased.
func (c *CartAdjuster) CreateCoupon(ctx context.Context, msg CreateCouponMessage) (*Coupon, error) {
	var coupon *Coupon
	err := runWithTimeout(ctx, c.timeout, "coupon create", func(ctx context.Context) error {
		msg.Name = NormalizeCouponName(msg.Name)
		if err := msg.Validate(); err != nil {
			return validationError(err, "invalid coupon payload")
		}

		created, err := c.repo.Coupons().Create(ctx, &Coupon{
			ID:       uuid.New(),
			Name:     msg.Name,
			Discount: msg.Discount,
			Expiry:   msg.Expiry,
		})
		if err != nil {
			if IsDuplicateCoupon(err) {
				return ErrDuplicateCoupon
			}
			return internalError(err, "failed to create coupon")
		}

		c.logger.Info("coupon created", "coupon", created.Name, "discount", created.Discount)
		coupon = created
		return nil
	})
	return coupon, err
}
