package httphandler

import (
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getTokenRequest struct {
	Id      string `params:"id"`
	TokenId uint64 `params:"tokenId"`
}

func (r getTokenRequest) Validate() error {
	var errList []error
	if _, err := parseClassId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid class id", r.Id))
	}
	if r.TokenId == 0 {
		errList = append(errList, errors.New("tokenId must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokenResult struct {
	ClassId         string `json:"classId"`
	TokenId         uint64 `json:"tokenId"`
	Owner           string `json:"owner"`
	TokenURI        string `json:"tokenUri"`
	ApprovedSpender string `json:"approvedSpender"`
}

type getTokenResponse = HttpResponse[getTokenResult]

func (h *HttpHandler) GetToken(ctx *fiber.Ctx) (err error) {
	var req getTokenRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	classId, err := parseClassId(req.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	token, err := h.usecase.GetToken(ctx.UserContext(), classId, req.TokenId)
	if err != nil {
		if errors.Is(err, errs.NoSuchToken) {
			return errs.NewPublicError("token not found")
		}
		return errors.Wrap(err, "error during GetToken")
	}

	resp := getTokenResponse{
		Result: &getTokenResult{
			ClassId:         token.ClassId.String(),
			TokenId:         token.TokenId,
			Owner:           token.Owner.String(),
			TokenURI:        token.TokenURI,
			ApprovedSpender: token.ApprovedSpender.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
