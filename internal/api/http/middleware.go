package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/vectorvault/internal/observability"
	"github.com/spec-kit/vectorvault/internal/service"
	apperrors "github.com/spec-kit/vectorvault/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := mapServiceError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// mapServiceError translates the auth service's tagged errors into transport
// responses. Unknown errors collapse to a 500 without exposing the cause.
func mapServiceError(err error) *apperrors.DomainError {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		return apperrors.NewDomainError("USERNAME_TAKEN", service.ErrUsernameTaken.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewDomainError("INVALID_CREDENTIALS", service.ErrInvalidCredentials.Error(), http.StatusUnauthorized, nil)
	case errors.Is(err, service.ErrUnauthenticated):
		return apperrors.NewDomainError("UNAUTHENTICATED", service.ErrUnauthenticated.Error(), http.StatusUnauthorized, nil)
	case errors.Is(err, service.ErrInactiveUser):
		return apperrors.NewDomainError("INACTIVE_USER", service.ErrInactiveUser.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, service.ErrPasswordTooLong):
		return apperrors.NewDomainError("VALIDATION_FAILED", service.ErrPasswordTooLong.Error(), http.StatusBadRequest, nil)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "BAD_REQUEST"
		if fiberErr.Code == http.StatusUnauthorized {
			code = "UNAUTHORIZED"
		}
		return apperrors.NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}

	return apperrors.ToDomainError(err)
}
