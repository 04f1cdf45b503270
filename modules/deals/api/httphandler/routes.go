package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/deals")

	// static segments are registered before the deal id parameter so that
	// "id", "owner" and "funds" never match as a deal id
	r.Get("/id", h.GetDealId)
	r.Get("/owner", h.GetAssetOwner)
	r.Post("/funds/deposit", h.DepositFunds)
	r.Get("/funds/:address", h.GetFundBalance)
	r.Post("/", h.CreateDirectDeal)
	r.Get("/", h.GetDeals)
	r.Get("/:id", h.GetDeal)
	r.Post("/:id/pay", h.PayByEth)
	return nil
}
