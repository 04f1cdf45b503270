package httphandler

import (
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getClassRequest struct {
	Id string `params:"id"`
}

func (r getClassRequest) Validate() error {
	var errList []error
	if _, err := parseClassId(r.Id); err != nil {
		errList = append(errList, errors.Errorf("id '%s' is not a valid class id", r.Id))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type classResult struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	SupplyCap     uint64 `json:"supplyCap"`
	MetadataURI   string `json:"metadataUri"`
	ClassOwner    string `json:"classOwner"`
	LedgerAddress string `json:"ledgerAddress"`
	MintedCount   uint64 `json:"mintedCount"`
}

func newClassResult(class *entity.AssetClass) classResult {
	return classResult{
		Id:            class.Id.String(),
		Name:          class.Name,
		Symbol:        class.Symbol,
		SupplyCap:     class.SupplyCap,
		MetadataURI:   class.MetadataURI,
		ClassOwner:    class.ClassOwner.String(),
		LedgerAddress: class.LedgerAddress.String(),
		MintedCount:   class.MintedCount,
	}
}

type getClassResponse = HttpResponse[classResult]

func (h *HttpHandler) GetClass(ctx *fiber.Ctx) (err error) {
	var req getClassRequest
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
	class, err := h.usecase.GetClass(ctx.UserContext(), classId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("class not found")
		}
		return errors.Wrap(err, "error during GetClass")
	}

	resp := getClassResponse{
		Result: lo.ToPtr(newClassResult(class)),
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getClassesRequest struct {
	Limit  int32 `query:"limit"`
	Offset int32 `query:"offset"`
}

func (r getClassesRequest) Validate() error {
	var errList []error
	if r.Limit < -1 {
		errList = append(errList, errors.Errorf("invalid limit %d", r.Limit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.Errorf("invalid offset %d", r.Offset))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getClassesResult struct {
	List []classResult `json:"list"`
}

type getClassesResponse = HttpResponse[getClassesResult]

func (h *HttpHandler) GetClasses(ctx *fiber.Ctx) (err error) {
	req := getClassesRequest{
		Limit: 100,
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	classes, err := h.usecase.GetClasses(ctx.UserContext(), req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetClasses")
	}

	resp := getClassesResponse{
		Result: &getClassesResult{
			List: lo.Map(classes, func(class *entity.AssetClass, _ int) classResult {
				return newClassResult(class)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
