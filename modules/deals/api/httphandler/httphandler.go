package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/deals"
	dealsvalues "github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/usecase"
	"github.com/assetdeal/registry-network/pkg/decimals"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

type HttpHandler struct {
	processor *deals.Processor
	usecase   *usecase.Usecase
}

func New(processor *deals.Processor, usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		processor: processor,
		usecase:   usecase,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

// amountResult renders a raw wei-scale amount together with its 18-decimal
// display form.
type amountResult struct {
	Raw     string `json:"raw"`
	Display string `json:"display"`
}

func newAmountResult(value uint128.Uint128) amountResult {
	return amountResult{
		Raw:     value.String(),
		Display: decimals.Display(value),
	}
}

func parseDealId(id string) (dealsvalues.DealId, error) {
	dealId, err := dealsvalues.NewDealIdFromString(id)
	if err != nil {
		return dealsvalues.DealId{}, errors.WithStack(err)
	}
	return dealId, nil
}

func parseAddress(addr string) (common.Address, error) {
	address, err := common.NewAddressFromString(addr)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return address, nil
}

func parseAmount(amount string) (uint128.Uint128, error) {
	value, err := uint128.FromString(amount)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.InvalidAmount, "cannot parse amount %q", amount)
	}
	return value, nil
}
