package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type payByEthRequest struct {
	Id     string `params:"id"`
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

func (r payByEthRequest) Validate() error {
	var errList []error
	if _, err := parseDealId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid deal id", r.Id))
	}
	if _, err := common.NewAddressFromString(r.Caller); err != nil {
		errList = append(errList, errors.Errorf("caller '%s' is not a valid address", r.Caller))
	}
	if _, err := parseAmount(r.Amount); err != nil {
		errList = append(errList, errors.Errorf("amount '%s' is not a valid amount", r.Amount))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type payByEthResult struct {
	DealId  string       `json:"dealId"`
	Seller  string       `json:"seller"`
	Buyer   string       `json:"buyer"`
	TokenId uint64       `json:"tokenId"`
	Price   amountResult `json:"price"`
	Tax     amountResult `json:"tax"`
	Refund  amountResult `json:"refund"`
}

type payByEthResponse = HttpResponse[payByEthResult]

func (h *HttpHandler) PayByEth(ctx *fiber.Ctx) (err error) {
	var req payByEthRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errs.NewPublicError("unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	dealId, err := parseDealId(req.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		return errors.WithStack(err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return errors.WithStack(err)
	}

	settlement, err := h.processor.PayByEth(ctx.UserContext(), caller, dealId, amount)
	if err != nil {
		return errors.Wrap(err, "error during PayByEth")
	}

	resp := payByEthResponse{
		Result: &payByEthResult{
			DealId:  settlement.DealId.String(),
			Seller:  settlement.Seller.String(),
			Buyer:   settlement.Buyer.String(),
			TokenId: settlement.TokenId,
			Price:   newAmountResult(settlement.Price),
			Tax:     newAmountResult(settlement.Tax),
			Refund:  newAmountResult(settlement.Refund),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
