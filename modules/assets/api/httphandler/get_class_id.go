package httphandler

import (
	"github.com/assetdeal/registry-network/common/errs"
	assetsvalues "github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getClassIdRequest struct {
	Name        string `query:"name"`
	Symbol      string `query:"symbol"`
	MetadataURI string `query:"metadataUri"`
}

func (r getClassIdRequest) Validate() error {
	var errList []error
	if r.Name == "" {
		errList = append(errList, errors.New("name must not be empty"))
	}
	if r.Symbol == "" {
		errList = append(errList, errors.New("symbol must not be empty"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getClassIdResult struct {
	Id            string `json:"id"`
	LedgerAddress string `json:"ledgerAddress"`
}

type getClassIdResponse = HttpResponse[getClassIdResult]

// GetClassId derives the class id for the given fields without touching the
// registry. The returned ledger address is where the class's ledger will live
// if the class is (or was) registered.
func (h *HttpHandler) GetClassId(ctx *fiber.Ctx) (err error) {
	var req getClassIdRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	classId := assetsvalues.NewClassId(req.Name, req.Symbol, req.MetadataURI)

	resp := getClassIdResponse{
		Result: &getClassIdResult{
			Id:            classId.String(),
			LedgerAddress: assetsvalues.LedgerAddress(classId).String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
