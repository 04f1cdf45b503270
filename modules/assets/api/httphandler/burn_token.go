package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type burnTokenRequest struct {
	Id      string `params:"id"`
	TokenId uint64 `params:"tokenId"`
	Caller  string `json:"caller"`
}

func (r burnTokenRequest) Validate() error {
	var errList []error
	if _, err := parseClassId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid class id", r.Id))
	}
	if _, err := common.NewAddressFromString(r.Caller); err != nil {
		errList = append(errList, errors.Errorf("caller '%s' is not a valid address", r.Caller))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type burnTokenResult struct {
	TokenId uint64 `json:"tokenId"`
}

type burnTokenResponse = HttpResponse[burnTokenResult]

func (h *HttpHandler) BurnToken(ctx *fiber.Ctx) (err error) {
	var req burnTokenRequest
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

	if err := h.processor.Burn(ctx.UserContext(), caller, classId, req.TokenId); err != nil {
		return errors.Wrap(err, "error during Burn")
	}

	resp := burnTokenResponse{
		Result: &burnTokenResult{
			TokenId: req.TokenId,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
