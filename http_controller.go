package storefront

import (
	"context"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/middleware/jwtware"
)

// ControllerRoutes holds the paths mounted by RegisterRoutes
type ControllerRoutes struct {
	Register       string
	Login          string
	LoginGoogle    string
	Profile        string
	Avatar         string
	RefreshToken   string
	Password       string
	ActivateEmail  string
	ForgotPassword string
	ResetPassword  string
	Address        string
	CouponApply    string
	Coupon         string
	Wishlist       string
}

// DefaultRoutes mirrors the public REST surface
var DefaultRoutes = ControllerRoutes{
	Register:       "/register",
	Login:          "/login",
	LoginGoogle:    "/login/google",
	Profile:        "/profile",
	Avatar:         "/profile/avatar",
	RefreshToken:   "/refresh-token",
	Password:       "/password",
	ActivateEmail:  "/active-email",
	ForgotPassword: "/forgot-password",
	ResetPassword:  "/reset-password",
	Address:        "/address",
	CouponApply:    "/coupon/apply",
	Coupon:         "/coupon",
	Wishlist:       "/wishlist",
}

// Controller exposes AuthFlow and CartAdjuster as JSON endpoints
type Controller struct {
	Debug  bool
	Logger Logger
	Routes ControllerRoutes

	cfg       Config
	flow      *AuthFlow
	carts     *CartAdjuster
	validator TokenValidator
}

func NewController(cfg Config, flow *AuthFlow, carts *CartAdjuster, validator TokenValidator) *Controller {
	return &Controller{
		Logger:    defLogger{},
		Routes:    DefaultRoutes,
		cfg:       cfg,
		flow:      flow,
		carts:     carts,
		validator: validator,
	}
}

func (a *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

func (a *Controller) WithDebug(debug bool) *Controller {
	a.Debug = debug
	return a
}

// RegisterRoutes mounts every endpoint on r
func (a *Controller) RegisterRoutes(r fiber.Router) {
	protected := a.ProtectedRoute()
	admin := jwtware.RequireRole(a.cfg.GetContextKey(), string(RoleAdmin), a.authErrorHandler)

	r.Post(a.Routes.Register, a.Register)
	r.Post(a.Routes.Login, a.Login)
	r.Post(a.Routes.LoginGoogle, a.LoginGoogle)
	r.Post(a.Routes.RefreshToken, a.RefreshToken)
	r.Post(a.Routes.ActivateEmail, a.ActivateEmail)
	r.Post(a.Routes.ForgotPassword, a.ForgotPassword)
	r.Post(a.Routes.ResetPassword, a.ResetPassword)

	r.Get(a.Routes.Profile, protected, a.Profile)
	r.Put(a.Routes.Profile, protected, a.UpdateProfile)
	r.Put(a.Routes.Avatar, protected, a.UpdateAvatar)
	r.Put(a.Routes.Password, protected, a.ChangePassword)
	r.Post(a.Routes.Address, protected, a.SaveAddress)

	r.Post(a.Routes.CouponApply, protected, a.ApplyCoupon)
	r.Post(a.Routes.Coupon, protected, admin, a.CreateCoupon)

	r.Get(a.Routes.Wishlist, protected, a.Wishlist)
	r.Post(a.Routes.Wishlist, protected, a.AddToWishlist)
	r.Delete(a.Routes.Wishlist+"/:productId", protected, a.RemoveFromWishlist)
}

// ProtectedRoute requires a valid access token
func (a *Controller) ProtectedRoute() fiber.Handler {
	return jwtware.New(jwtware.Config{
		ErrorHandler:   a.authErrorHandler,
		ContextKey:     a.cfg.GetContextKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		AuthScheme:     a.cfg.GetAuthScheme(),
		TokenValidator: jwtValidator{a.validator},
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(AuthClaims); ok {
				return WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})
}

func (a *Controller) Register(c *fiber.Ctx) error {
	var msg RegisterUserMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	resp, err := a.flow.Register(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(resp)
}

func (a *Controller) Login(c *fiber.Ctx) error {
	var msg LoginMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	resp, err := a.flow.Login(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{
		"accessToken":  resp.AccessToken,
		"refreshToken": resp.RefreshToken,
		"user":         resp.User,
	})
}

func (a *Controller) LoginGoogle(c *fiber.Ctx) error {
	var msg GoogleLoginMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	resp, err := a.flow.LoginWithGoogle(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{
		"user":         resp.User,
		"accessToken":  resp.AccessToken,
		"refreshToken": resp.RefreshToken,
	})
}

func (a *Controller) RefreshToken(c *fiber.Ctx) error {
	var msg RefreshTokenMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	pair, err := a.flow.RefreshToken(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(pair)
}

func (a *Controller) ActivateEmail(c *fiber.Ctx) error {
	var msg ActivateEmailMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	resp, err := a.flow.ActivateEmail(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(resp)
}

func (a *Controller) ForgotPassword(c *fiber.Ctx) error {
	var msg ForgotPasswordMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	resp, err := a.flow.ForgotPassword(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(resp)
}

func (a *Controller) ResetPassword(c *fiber.Ctx) error {
	var msg ResetPasswordMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	resp, err := a.flow.ResetPassword(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(resp)
}

func (a *Controller) Profile(c *fiber.Ctx) error {
	profile, err := a.flow.Profile(c.UserContext(), a.userID(c))
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

func (a *Controller) UpdateProfile(c *fiber.Ctx) error {
	var msg UpdateProfileMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	msg.UserID = a.userID(c)
	profile, err := a.flow.UpdateProfile(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"status": "Update success", "user": profile})
}

func (a *Controller) UpdateAvatar(c *fiber.Ctx) error {
	var msg UpdateAvatarMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	msg.UserID = a.userID(c)
	profile, err := a.flow.UpdateAvatar(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

func (a *Controller) ChangePassword(c *fiber.Ctx) error {
	var msg ChangePasswordMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	msg.UserID = a.userID(c)
	if err := a.flow.ChangePassword(c.UserContext(), msg); err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password has been changed successfully"})
}

func (a *Controller) SaveAddress(c *fiber.Ctx) error {
	var msg SaveAddressMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	msg.UserID = a.userID(c)
	if err := a.flow.SaveAddress(c.UserContext(), msg); err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ApplyCoupon reports failures as {err} instead of {message}
func (a *Controller) ApplyCoupon(c *fiber.Ctx) error {
	var msg ApplyCouponMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	msg.UserID = a.userID(c)
	resp, err := a.carts.ApplyCoupon(c.UserContext(), msg)
	if err != nil {
		richErr := a.richError(err)
		return c.Status(richErr.Code).JSON(fiber.Map{
			"err":       richErr.Message,
			"text_code": richErr.TextCode,
		})
	}
	return c.JSON(resp)
}

func (a *Controller) CreateCoupon(c *fiber.Ctx) error {
	var msg CreateCouponMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	coupon, err := a.carts.CreateCoupon(c.UserContext(), msg)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"coupon": coupon})
}

func (a *Controller) Wishlist(c *fiber.Ctx) error {
	products, err := a.flow.Wishlist(c.UserContext(), a.userID(c))
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"wishlist": products})
}

func (a *Controller) AddToWishlist(c *fiber.Ctx) error {
	var msg WishlistMessage
	if err := c.BodyParser(&msg); err != nil {
		return a.badBody(c, err)
	}
	msg.UserID = a.userID(c)
	if err := a.flow.AddToWishlist(c.UserContext(), msg); err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (a *Controller) RemoveFromWishlist(c *fiber.Ctx) error {
	msg := WishlistMessage{
		UserID:    a.userID(c),
		ProductID: c.Params("productId"),
	}
	if err := a.flow.RemoveFromWishlist(c.UserContext(), msg); err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// userID reads the claims ProtectedRoute placed on the user context
func (a *Controller) userID(c *fiber.Ctx) string {
	id, _ := UserIDFromContext(c.UserContext())
	return id
}

func (a *Controller) badBody(c *fiber.Ctx, err error) error {
	return a.ErrorHandler(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse request body").
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest))
}

// jwtValidator narrows TokenValidator to the middleware interface
type jwtValidator struct {
	validator TokenValidator
}

func (v jwtValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
