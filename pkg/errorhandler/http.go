package errorhandler

import (
	"net/http"

	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

// kindStatus maps domain error kinds to HTTP statuses. Kinds not listed here
// are treated as internal errors.
var kindStatus = map[errs.ErrorKind]int{
	errs.NotFound:            http.StatusNotFound,
	errs.NoSuchToken:         http.StatusNotFound,
	errs.NoSuchDeal:          http.StatusNotFound,
	errs.IndexOutOfRange:     http.StatusNotFound,
	errs.InvalidArgument:     http.StatusBadRequest,
	errs.InvalidAmount:       http.StatusBadRequest,
	errs.Unsupported:         http.StatusBadRequest,
	errs.Unauthorized:        http.StatusForbidden,
	errs.NotOwner:            http.StatusForbidden,
	errs.NotApprovedOrOwner:  http.StatusForbidden,
	errs.NotApproved:         http.StatusConflict,
	errs.SupplyExceeded:      http.StatusConflict,
	errs.DuplicateClass:      http.StatusConflict,
	errs.DealAlreadyOpen:     http.StatusConflict,
	errs.DealNotOpen:         http.StatusConflict,
	errs.SettlementFailed:    http.StatusConflict,
	errs.InsufficientPayment: http.StatusPaymentRequired,
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": e.Message(),
			}))
		}
		for kind, status := range kindStatus {
			if errors.Is(err, kind) {
				return errors.WithStack(ctx.Status(status).JSON(fiber.Map{
					"error": kind.Error(),
				}))
			}
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(fiber.Map{
				"error": e.Error(),
			}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		}))
	}
}
