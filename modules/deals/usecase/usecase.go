package usecase

import (
	"github.com/assetdeal/registry-network/modules/deals/datagateway"
)

type Usecase struct {
	dealsDg datagateway.DealsDataGateway
}

func New(dealsDg datagateway.DealsDataGateway) *Usecase {
	return &Usecase{
		dealsDg: dealsDg,
	}
}
