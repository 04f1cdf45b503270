package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
)

type createDirectDealRequest struct {
	Caller        string `json:"caller"`
	LedgerAddress string `json:"ledgerAddress"`
	TokenId       uint64 `json:"tokenId"`
	Price         string `json:"price"`
	Tax           string `json:"tax"`
}

func (r createDirectDealRequest) Validate() error {
	var errList []error
	if _, err := common.NewAddressFromString(r.Caller); err != nil {
		errList = append(errList, errors.Errorf("caller '%s' is not a valid address", r.Caller))
	}
	if _, err := common.NewAddressFromString(r.LedgerAddress); err != nil {
		errList = append(errList, errors.Errorf("ledgerAddress '%s' is not a valid address", r.LedgerAddress))
	}
	if r.TokenId == 0 {
		errList = append(errList, errors.New("tokenId must be positive"))
	}
	if _, err := parseAmount(r.Price); err != nil {
		errList = append(errList, errors.Errorf("price '%s' is not a valid amount", r.Price))
	}
	if r.Tax != "" {
		if _, err := parseAmount(r.Tax); err != nil {
			errList = append(errList, errors.Errorf("tax '%s' is not a valid amount", r.Tax))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type createDirectDealResult struct {
	DealId string       `json:"dealId"`
	Price  amountResult `json:"price"`
	Tax    amountResult `json:"tax"`
}

type createDirectDealResponse = HttpResponse[createDirectDealResult]

func (h *HttpHandler) CreateDirectDeal(ctx *fiber.Ctx) (err error) {
	var req createDirectDealRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.NewPublicError("unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	caller, err := parseAddress(req.Caller)
	if err != nil {
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
	tax := uint128.Zero
	if req.Tax != "" {
		tax, err = parseAmount(req.Tax)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	dealId, err := h.processor.CreateDirectDeal(ctx.UserContext(), caller, ledgerAddress, req.TokenId, price, tax)
	if err != nil {
		return errors.Wrap(err, "error during CreateDirectDeal")
	}

	resp := createDirectDealResponse{
		Result: &createDirectDealResult{
			DealId: dealId.String(),
			Price:  newAmountResult(price),
			Tax:    newAmountResult(tax),
		},
	}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
