package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type mintTokenRequest struct {
	Id       string `params:"id"`
	Caller   string `json:"caller"`
	To       string `json:"to"`
	TokenURI string `json:"tokenUri"`
}

func (r mintTokenRequest) Validate() error {
	var errList []error
	if _, err := parseClassId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid class id", r.Id))
	}
	if _, err := common.NewAddressFromString(r.Caller); err != nil {
		errList = append(errList, errors.Errorf("caller '%s' is not a valid address", r.Caller))
	}
	if _, err := common.NewAddressFromString(r.To); err != nil {
		errList = append(errList, errors.Errorf("to '%s' is not a valid address", r.To))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type mintTokenResult struct {
	TokenId uint64 `json:"tokenId"`
}

type mintTokenResponse = HttpResponse[mintTokenResult]

func (h *HttpHandler) MintToken(ctx *fiber.Ctx) (err error) {
	var req mintTokenRequest
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
	to, err := parseAddress(req.To)
	if err != nil {
		return errors.WithStack(err)
	}

	tokenId, err := h.processor.Mint(ctx.UserContext(), caller, classId, to, req.TokenURI)
	if err != nil {
		return errors.Wrap(err, "error during Mint")
	}

	resp := mintTokenResponse{
		Result: &mintTokenResult{
			TokenId: tokenId,
		},
	}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
