package postgres

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
)

type classModel struct {
	Id            string
	Name          string
	Symbol        string
	SupplyCap     int64
	MetadataURI   string
	ClassOwner    string
	LedgerAddress string
	MintedCount   int64
}

type tokenModel struct {
	ClassId         string
	TokenId         int64
	Owner           string
	TokenURI        string
	ApprovedSpender string
	OwnerIndex      int64
}

func mapClassModelToType(m classModel) (*entity.AssetClass, error) {
	id, err := assets.NewClassIdFromString(m.Id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse class id")
	}
	classOwner, err := common.NewAddressFromString(m.ClassOwner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse class owner")
	}
	ledgerAddress, err := common.NewAddressFromString(m.LedgerAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ledger address")
	}
	return &entity.AssetClass{
		Id:            id,
		Name:          m.Name,
		Symbol:        m.Symbol,
		SupplyCap:     uint64(m.SupplyCap),
		MetadataURI:   m.MetadataURI,
		ClassOwner:    classOwner,
		LedgerAddress: ledgerAddress,
		MintedCount:   uint64(m.MintedCount),
	}, nil
}

func mapTokenModelToType(m tokenModel) (*entity.Token, error) {
	classId, err := assets.NewClassIdFromString(m.ClassId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse class id")
	}
	owner, err := common.NewAddressFromString(m.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse owner")
	}
	approved := common.ZeroAddress
	if m.ApprovedSpender != "" {
		approved, err = common.NewAddressFromString(m.ApprovedSpender)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse approved spender")
		}
	}
	return &entity.Token{
		ClassId:         classId,
		TokenId:         uint64(m.TokenId),
		Owner:           owner,
		TokenURI:        m.TokenURI,
		ApprovedSpender: approved,
		OwnerIndex:      uint64(m.OwnerIndex),
	}, nil
}

func approvedSpenderToModel(addr common.Address) string {
	if addr.IsZero() {
		return ""
	}
	return addr.String()
}
