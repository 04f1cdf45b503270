package postgres

import (
	"time"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/modules/deals/deals"
	"github.com/assetdeal/registry-network/modules/deals/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
)

func uint128FromNumeric(src pgtype.Numeric) (uint128.Uint128, error) {
	if !src.Valid {
		return uint128.Zero, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	result, err := uint128.FromString(string(bytes))
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return result, nil
}

func numericFromUint128(src uint128.Uint128) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(src.String())); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

type dealModel struct {
	Id            string
	LedgerAddress string
	TokenId       int64
	Seller        string
	Price         pgtype.Numeric
	Tax           pgtype.Numeric
	State         string
	Buyer         string
	CreatedAt     pgtype.Timestamptz
	ClosedAt      pgtype.Timestamptz
}

func mapDealModelToType(m dealModel) (*entity.Deal, error) {
	id, err := deals.NewDealIdFromString(m.Id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse deal id")
	}
	ledgerAddress, err := common.NewAddressFromString(m.LedgerAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ledger address")
	}
	seller, err := common.NewAddressFromString(m.Seller)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse seller")
	}
	buyer := common.ZeroAddress
	if m.Buyer != "" {
		buyer, err = common.NewAddressFromString(m.Buyer)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse buyer")
		}
	}
	price, err := uint128FromNumeric(m.Price)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse price")
	}
	tax, err := uint128FromNumeric(m.Tax)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tax")
	}
	state, err := deals.NewDealState(m.State)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse deal state")
	}
	var closedAt *time.Time
	if m.ClosedAt.Valid {
		t := m.ClosedAt.Time.UTC()
		closedAt = &t
	}
	return &entity.Deal{
		Id:            id,
		LedgerAddress: ledgerAddress,
		TokenId:       uint64(m.TokenId),
		Seller:        seller,
		Price:         price,
		Tax:           tax,
		State:         state,
		Buyer:         buyer,
		CreatedAt:     m.CreatedAt.Time.UTC(),
		ClosedAt:      closedAt,
	}, nil
}

func buyerToModel(addr common.Address) string {
	if addr.IsZero() {
		return ""
	}
	return addr.String()
}
