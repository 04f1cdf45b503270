package usecase

import (
	"github.com/assetdeal/registry-network/modules/assets/datagateway"
)

type Usecase struct {
	assetsDg datagateway.AssetsDataGateway
}

func New(assetsDg datagateway.AssetsDataGateway) *Usecase {
	return &Usecase{
		assetsDg: assetsDg,
	}
}
