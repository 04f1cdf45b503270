package httphandler

import (
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getDealsRequest struct {
	Limit  int32 `query:"limit"`
	Offset int32 `query:"offset"`
}

func (r getDealsRequest) Validate() error {
	var errList []error
	if r.Limit < -1 {
		errList = append(errList, errors.Errorf("invalid limit %d", r.Limit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.Errorf("invalid offset %d", r.Offset))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getDealsResult struct {
	List []dealResult `json:"list"`
}

type getDealsResponse = HttpResponse[getDealsResult]

func (h *HttpHandler) GetDeals(ctx *fiber.Ctx) (err error) {
	req := getDealsRequest{
		Limit: 100,
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	list, err := h.usecase.GetDeals(ctx.UserContext(), req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetDeals")
	}

	resp := getDealsResponse{
		Result: &getDealsResult{
			List: lo.Map(list, func(deal *entity.Deal, _ int) dealResult {
				return newDealResult(deal)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
