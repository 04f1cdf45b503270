package httphandler

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type registerClassRequest struct {
	Caller      string `json:"caller"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	SupplyCap   uint64 `json:"supplyCap"`
	MetadataURI string `json:"metadataUri"`
	ClassOwner  string `json:"classOwner"`
}

func (r registerClassRequest) Validate() error {
	var errList []error
	if _, err := common.NewAddressFromString(r.Caller); err != nil {
		errList = append(errList, errors.Errorf("caller '%s' is not a valid address", r.Caller))
	}
	if _, err := common.NewAddressFromString(r.ClassOwner); err != nil {
		errList = append(errList, errors.Errorf("classOwner '%s' is not a valid address", r.ClassOwner))
	}
	if r.Name == "" {
		errList = append(errList, errors.New("name must not be empty"))
	}
	if r.Symbol == "" {
		errList = append(errList, errors.New("symbol must not be empty"))
	}
	if r.SupplyCap == 0 {
		errList = append(errList, errors.New("supplyCap must be positive"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type registerClassResult struct {
	Id            string `json:"id"`
	LedgerAddress string `json:"ledgerAddress"`
}

type registerClassResponse = HttpResponse[registerClassResult]

func (h *HttpHandler) RegisterClass(ctx *fiber.Ctx) (err error) {
	var req registerClassRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.NewPublicError("unable to parse request body")
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	caller, err := parseAddress(req.Caller)
	if err != nil {
		return errors.WithStack(err)
	}
	classOwner, err := parseAddress(req.ClassOwner)
	if err != nil {
		return errors.WithStack(err)
	}

	classId, err := h.processor.RegisterClass(ctx.UserContext(), caller, req.Name, req.Symbol, req.SupplyCap, req.MetadataURI, classOwner)
	if err != nil {
		return errors.Wrap(err, "error during RegisterClass")
	}
	ledgerAddress, err := h.usecase.LookupLedger(ctx.UserContext(), classId)
	if err != nil {
		return errors.Wrap(err, "error during LookupLedger")
	}

	resp := registerClassResponse{
		Result: &registerClassResult{
			Id:            classId.String(),
			LedgerAddress: ledgerAddress.String(),
		},
	}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
