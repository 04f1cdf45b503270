package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/assets")

	r.Post("/classes", h.RegisterClass)
	r.Get("/classes/id", h.GetClassId)
	r.Get("/classes", h.GetClasses)
	r.Get("/classes/:id", h.GetClass)
	r.Post("/classes/:id/tokens", h.MintToken)
	r.Get("/classes/:id/tokens/:tokenId", h.GetToken)
	r.Post("/classes/:id/tokens/:tokenId/approve", h.ApproveToken)
	r.Post("/classes/:id/tokens/:tokenId/transfer", h.TransferToken)
	r.Post("/classes/:id/tokens/:tokenId/burn", h.BurnToken)
	r.Get("/classes/:id/balances/:owner", h.GetBalance)
	return nil
}
