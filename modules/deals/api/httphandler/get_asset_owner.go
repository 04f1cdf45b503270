package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getAssetOwnerRequest struct {
	LedgerAddress string `query:"ledgerAddress"`
	TokenId       uint64 `query:"tokenId"`
}

func (r getAssetOwnerRequest) Validate() error {
	var errList []error
	if _, err := common.NewAddressFromString(r.LedgerAddress); err != nil {
		errList = append(errList, errors.Errorf("ledgerAddress '%s' is not a valid address", r.LedgerAddress))
	}
	if r.TokenId == 0 {
		errList = append(errList, errors.New("tokenId must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getAssetOwnerResult struct {
	Owner string `json:"owner"`
}

type getAssetOwnerResponse = HttpResponse[getAssetOwnerResult]

func (h *HttpHandler) GetAssetOwner(ctx *fiber.Ctx) (err error) {
	var req getAssetOwnerRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	ledgerAddress, err := parseAddress(req.LedgerAddress)
	if err != nil {
		return errors.WithStack(err)
	}

	owner, err := h.processor.GetAssetOwner(ctx.UserContext(), ledgerAddress, req.TokenId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("no ledger at address")
		}
		if errors.Is(err, errs.NoSuchToken) {
			return errs.NewPublicError("token not found")
		}
		return errors.Wrap(err, "error during GetAssetOwner")
	}

	resp := getAssetOwnerResponse{
		Result: &getAssetOwnerResult{
			Owner: owner.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
