package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getBalanceRequest struct {
	Id         string  `params:"id"`
	Owner      string  `params:"owner"`
	Index      *uint64 `query:"index"`
	WithTokens bool    `query:"withTokens"`
}

func (r getBalanceRequest) Validate() error {
	var errList []error
	if _, err := parseClassId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid class id", r.Id))
	}
	if _, err := common.NewAddressFromString(r.Owner); err != nil {
		errList = append(errList, errors.Errorf("owner '%s' is not a valid address", r.Owner))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getBalanceResult struct {
	Owner    string   `json:"owner"`
	Balance  uint64   `json:"balance"`
	TokenId  *uint64  `json:"tokenId,omitempty"`
	TokenIds []uint64 `json:"tokenIds,omitempty"`
}

type getBalanceResponse = HttpResponse[getBalanceResult]

// GetBalance returns the owner's live token count in the class. When the
// `index` query parameter is present, the token id at that position of the
// owner's enumeration is returned as well; `withTokens` returns the whole
// enumeration.
func (h *HttpHandler) GetBalance(ctx *fiber.Ctx) (err error) {
	var req getBalanceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	classId, err := parseClassId(req.Id)
	if err != nil {
		return errors.WithStack(err)
	}
	owner, err := parseAddress(req.Owner)
	if err != nil {
		return errors.WithStack(err)
	}

	balance, err := h.usecase.BalanceOf(ctx.UserContext(), classId, owner)
	if err != nil {
		return errors.Wrap(err, "error during BalanceOf")
	}

	result := getBalanceResult{
		Owner:   owner.String(),
		Balance: balance,
	}
	if req.Index != nil {
		tokenId, err := h.usecase.TokenOfOwnerByIndex(ctx.UserContext(), classId, owner, *req.Index)
		if err != nil {
			if errors.Is(err, errs.IndexOutOfRange) {
				return errs.NewPublicError("index out of range")
			}
			return errors.Wrap(err, "error during TokenOfOwnerByIndex")
		}
		result.TokenId = lo.ToPtr(tokenId)
	}
	if req.WithTokens {
		tokens, err := h.usecase.GetTokensByOwner(ctx.UserContext(), classId, owner)
		if err != nil {
			return errors.Wrap(err, "error during GetTokensByOwner")
		}
		result.TokenIds = lo.Map(tokens, func(token *entity.Token, _ int) uint64 {
			return token.TokenId
		})
	}

	resp := getBalanceResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}
