package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type transferTokenRequest struct {
	Id      string `params:"id"`
	TokenId uint64 `params:"tokenId"`
	Caller  string `json:"caller"`
	From    string `json:"from"`
	To      string `json:"to"`
}

func (r transferTokenRequest) Validate() error {
	var errList []error
	if _, err := parseClassId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid class id", r.Id))
	}
	if _, err := common.NewAddressFromString(r.Caller); err != nil {
		errList = append(errList, errors.Errorf("caller '%s' is not a valid address", r.Caller))
	}
	if _, err := common.NewAddressFromString(r.From); err != nil {
		errList = append(errList, errors.Errorf("from '%s' is not a valid address", r.From))
	}
	if _, err := common.NewAddressFromString(r.To); err != nil {
		errList = append(errList, errors.Errorf("to '%s' is not a valid address", r.To))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type transferTokenResult struct {
	Owner string `json:"owner"`
}

type transferTokenResponse = HttpResponse[transferTokenResult]

func (h *HttpHandler) TransferToken(ctx *fiber.Ctx) (err error) {
	var req transferTokenRequest
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
	from, err := parseAddress(req.From)
	if err != nil {
		return errors.WithStack(err)
	}
	to, err := parseAddress(req.To)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.processor.TransferFrom(ctx.UserContext(), caller, classId, from, req.TokenId, to); err != nil {
		return errors.Wrap(err, "error during TransferFrom")
	}

	resp := transferTokenResponse{
		Result: &transferTokenResult{
			Owner: to.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
