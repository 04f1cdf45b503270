package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type approveTokenRequest struct {
	Id      string `params:"id"`
	TokenId uint64 `params:"tokenId"`
	Caller  string `json:"caller"`
	Spender string `json:"spender"`
}

func (r approveTokenRequest) Validate() error {
	var errList []error
	if _, err := parseClassId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid class id", r.Id))
	}
	if _, err := common.NewAddressFromString(r.Caller); err != nil {
		errList = append(errList, errors.Errorf("caller '%s' is not a valid address", r.Caller))
	}
	if _, err := common.NewAddressFromString(r.Spender); err != nil {
		errList = append(errList, errors.Errorf("spender '%s' is not a valid address", r.Spender))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type approveTokenResult struct {
	ApprovedSpender string `json:"approvedSpender"`
}

type approveTokenResponse = HttpResponse[approveTokenResult]

func (h *HttpHandler) ApproveToken(ctx *fiber.Ctx) (err error) {
	var req approveTokenRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errs.NewPublicError("unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	classId, err := parseClassId(req.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		return errors.WithStack(err)
	}
	spender, err := parseAddress(req.Spender)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.processor.Approve(ctx.UserContext(), caller, classId, spender, req.TokenId); err != nil {
		return errors.Wrap(err, "error during Approve")
	}

	resp := approveTokenResponse{
		Result: &approveTokenResult{
			ApprovedSpender: spender.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
