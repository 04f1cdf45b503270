package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getDealIdRequest struct {
	LedgerAddress string `query:"ledgerAddress"`
	TokenId       uint64 `query:"tokenId"`
	Price         string `query:"price"`
}

func (r getDealIdRequest) Validate() error {
	var errList []error
	if _, err := common.NewAddressFromString(r.LedgerAddress); err != nil {
		errList = append(errList, errors.Errorf("ledgerAddress '%s' is not a valid address", r.LedgerAddress))
	}
	if r.TokenId == 0 {
		errList = append(errList, errors.New("tokenId must be positive"))
	}
	if _, err := parseAmount(r.Price); err != nil {
		errList = append(errList, errors.Errorf("price '%s' is not a valid amount", r.Price))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getDealIdResult struct {
	DealId string `json:"dealId"`
}

type getDealIdResponse = HttpResponse[getDealIdResult]

// GetDealId derives the deal id for the given terms without touching state.
func (h *HttpHandler) GetDealId(ctx *fiber.Ctx) (err error) {
	var req getDealIdRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	ledgerAddress, err := parseAddress(req.LedgerAddress)
	if err != nil {
		return errors.WithStack(err)
	}
	price, err := parseAmount(req.Price)
	if err != nil {
		return errors.WithStack(err)
	}

	dealId := h.processor.GetDealId(ledgerAddress, req.TokenId, price)

	resp := getDealIdResponse{
		Result: &getDealIdResult{
			DealId: dealId.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
