package storefront

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/goliatone/go-storefront/middleware/jwtware"
)

// ErrorHandler renders err as {message, text_code} with the status of
// its rich error code
func (a *Controller) ErrorHandler(c *fiber.Ctx, err error) error {
	richErr := a.richError(err)

	if richErr.Category == goerrors.CategoryInternal || a.Debug {
		a.Logger.Error(
			"request failed",
			"path", c.OriginalURL(),
			"error", richErr.Message,
			"category", richErr.Category,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
	}

	message := richErr.Message
	if richErr.Category == goerrors.CategoryInternal && !a.Debug {
		message = "An unexpected server error occurred"
	}

	body := fiber.Map{
		"message":   message,
		"text_code": richErr.TextCode,
	}

	return c.Status(richErr.Code).JSON(body)
}

// authErrorHandler handles failures of the bearer middleware
func (a *Controller) authErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error

	switch {
	case errors.Is(err, jwtware.ErrAccessDenied):
		richErr = ErrForbidden
	case IsTokenExpiredError(err):
		richErr = ErrTokenExpired.Clone()
		richErr.Code = goerrors.CodeUnauthorized
	default:
		richErr = ErrTokenInvalid.Clone()
		richErr.Code = goerrors.CodeUnauthorized
	}

	a.Logger.Debug("authentication error", "path", c.OriginalURL(), "error", err)

	return c.Status(richErr.Code).JSON(fiber.Map{
		"message":   richErr.Message,
		"text_code": richErr.TextCode,
	})
}

func (a *Controller) richError(err error) *goerrors.Error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		category := goerrors.CategoryBadInput
		if fiberErr.Code == fiber.StatusNotFound {
			category = goerrors.CategoryNotFound
		}
		return goerrors.New(fiberErr.Message, category).WithCode(fiberErr.Code)
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}
	if richErr.Code == 0 {
		richErr = richErr.Clone()
		switch richErr.Category {
		case goerrors.CategoryInternal:
			richErr.Code = goerrors.CodeInternal
		case goerrors.CategoryAuthz:
			richErr.Code = goerrors.CodeForbidden
		default:
			richErr.Code = goerrors.CodeBadRequest
		}
	}
	return richErr
}
