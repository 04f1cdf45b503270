package httphandler

import (
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getDealRequest struct {
	Id string `params:"id"`
}

func (r getDealRequest) Validate() error {
	var errList []error
	if _, err := parseDealId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid deal id", r.Id))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type dealResult struct {
	Id            string       `json:"id"`
	LedgerAddress string       `json:"ledgerAddress"`
	TokenId       uint64       `json:"tokenId"`
	Seller        string       `json:"seller"`
	Price         amountResult `json:"price"`
	Tax           amountResult `json:"tax"`
	State         string       `json:"state"`
	Buyer         *string      `json:"buyer"`
	CreatedAt     int64        `json:"createdAt"` // unix timestamp
	ClosedAt      *int64       `json:"closedAt"`  // unix timestamp
}

func newDealResult(deal *entity.Deal) dealResult {
	var buyer *string
	if !deal.Buyer.IsZero() {
		buyer = lo.ToPtr(deal.Buyer.String())
	}
	var closedAt *int64
	if deal.ClosedAt != nil {
		closedAt = lo.ToPtr(deal.ClosedAt.Unix())
	}
	return dealResult{
		Id:            deal.Id.String(),
		LedgerAddress: deal.LedgerAddress.String(),
		TokenId:       deal.TokenId,
		Seller:        deal.Seller.String(),
		Price:         newAmountResult(deal.Price),
		Tax:           newAmountResult(deal.Tax),
		State:         deal.State.String(),
		Buyer:         buyer,
		CreatedAt:     deal.CreatedAt.Unix(),
		ClosedAt:      closedAt,
	}
}

type getDealResponse = HttpResponse[dealResult]

func (h *HttpHandler) GetDeal(ctx *fiber.Ctx) (err error) {
	var req getDealRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	dealId, err := parseDealId(req.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	deal, err := h.usecase.GetDeal(ctx.UserContext(), dealId)
	if err != nil {
		if errors.Is(err, errs.NoSuchDeal) {
			return errs.NewPublicError("deal not found")
		}
		return errors.Wrap(err, "error during GetDeal")
	}

	resp := getDealResponse{
		Result: lo.ToPtr(newDealResult(deal)),
	}
	return errors.WithStack(ctx.JSON(resp))
}
