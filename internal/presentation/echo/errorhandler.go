package echo

import (
	"errors"
	"net/http"
	"strings"

	echofw "github.com/labstack/echo/v4"
	"github.com/mirola777/idempotent-charges/internal/domain"
	apperrors "github.com/mirola777/idempotent-charges/internal/domain/errors"
	"github.com/mirola777/idempotent-charges/internal/retry"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler renders every handler error as {code, message} in
// the language asked for by Accept-Language.
func NewHTTPErrorHandler(logger *zap.Logger) echofw.HTTPErrorHandler {
	return func(err error, c echofw.Context) {
		if c.Response().Committed {
			return
		}

		lang := parseAcceptLanguage(c.Request().Header.Get("Accept-Language"))

		var echoErr *echofw.HTTPError
		if errors.As(err, &echoErr) {
			_ = c.JSON(echoErr.Code, map[string]interface{}{
				"code":    "HTTP_ERROR",
				"message": http.StatusText(echoErr.Code),
			})
			return
		}

		appErr := toAppError(err)
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.Any("trace_id", c.Get("trace_id")),
				zap.String("code", appErr.Code),
				zap.Error(err),
			)
		}

		localized := appErr.Localize(lang)
		_ = c.JSON(localized.HTTPCode, map[string]interface{}{
			"code":    localized.Code,
			"message": localized.Message,
		})
	}
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var declined *domain.PermanentGatewayError
	switch {
	case errors.Is(err, retry.ErrExhausted):
		return apperrors.ErrGatewayUnavailable().WithCause(err)
	case errors.As(err, &declined):
		return apperrors.ErrChargeDeclined(declined.Code).WithCause(err)
	case errors.Is(err, domain.ErrPermanent):
		return apperrors.ErrChargeDeclined("declined").WithCause(err)
	case errors.Is(err, domain.ErrKeyBusy):
		return apperrors.ErrPaymentProcessing().WithCause(err)
	default:
		return apperrors.ErrInternal().WithCause(err)
	}
}

func parseAcceptLanguage(header string) string {
	if header == "" {
		return "en"
	}
	lang := strings.TrimSpace(strings.Split(header, ",")[0])
	return strings.Split(lang, ";")[0]
}
