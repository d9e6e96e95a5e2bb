package mockapi

import (
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

// registerMiddlewares attaches request logging and error rendering.
func registerMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.ServerMetrics) {
	app.Use(requestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestLogger(logger *zap.Logger, metrics *observability.ServerMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		metrics.RecordResponse(c.Method(), route, status, elapsed)
		logger.Debug("request served",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed))
		return err
	}
}

// errorHandlingMiddleware renders every failure as {"error": CODE, "message": text}.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.ServerMetrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Method(), c.Route().Path, domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{
					"error":   domainErr.Code,
					"message": domainErr.Message,
				})
				err = nil
			}
		}()
		return c.Next()
	}
}

func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.NewDomainError(apperrors.CodeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code)
	}
	return apperrors.ToDomainError(err)
}
