package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/modules/assets"
	assetsvalues "github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/usecase"
	"github.com/cockroachdb/errors"
)

type HttpHandler struct {
	processor *assets.Processor
	usecase   *usecase.Usecase
}

func New(processor *assets.Processor, usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		processor: processor,
		usecase:   usecase,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

func parseClassId(id string) (assetsvalues.ClassId, error) {
	classId, err := assetsvalues.NewClassIdFromString(id)
	if err != nil {
		return assetsvalues.ClassId{}, errors.WithStack(err)
	}
	return classId, nil
}

func parseAddress(addr string) (common.Address, error) {
	address, err := common.NewAddressFromString(addr)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return address, nil
}
