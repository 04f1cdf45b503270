package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type depositFundsRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (r depositFundsRequest) Validate() error {
	var errList []error
	if _, err := common.NewAddressFromString(r.To); err != nil {
		errList = append(errList, errors.Errorf("to '%s' is not a valid address", r.To))
	}
	if _, err := parseAmount(r.Amount); err != nil {
		errList = append(errList, errors.Errorf("amount '%s' is not a valid amount", r.Amount))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type fundBalanceResult struct {
	Address string       `json:"address"`
	Balance amountResult `json:"balance"`
}

type depositFundsResponse = HttpResponse[fundBalanceResult]

func (h *HttpHandler) DepositFunds(ctx *fiber.Ctx) (err error) {
	var req depositFundsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.NewPublicError("unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	to, err := parseAddress(req.To)
	if err != nil {
		return errors.WithStack(err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return errors.WithStack(err)
	}

	balance, err := h.processor.Deposit(ctx.UserContext(), to, amount)
	if err != nil {
		return errors.Wrap(err, "error during Deposit")
	}

	resp := depositFundsResponse{
		Result: &fundBalanceResult{
			Address: to.String(),
			Balance: newAmountResult(balance),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getFundBalanceRequest struct {
	Address string `params:"address"`
}

func (r getFundBalanceRequest) Validate() error {
	var errList []error
	if _, err := common.NewAddressFromString(r.Address); err != nil {
		errList = append(errList, errors.Errorf("address '%s' is not a valid address", r.Address))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getFundBalanceResponse = HttpResponse[fundBalanceResult]

func (h *HttpHandler) GetFundBalance(ctx *fiber.Ctx) (err error) {
	var req getFundBalanceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	address, err := parseAddress(req.Address)
	if err != nil {
		return errors.WithStack(err)
	}
	balance, err := h.usecase.BalanceOf(ctx.UserContext(), address)
	if err != nil {
		return errors.Wrap(err, "error during BalanceOf")
	}

	resp := getFundBalanceResponse{
		Result: &fundBalanceResult{
			Address: address.String(),
			Balance: newAmountResult(balance),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
