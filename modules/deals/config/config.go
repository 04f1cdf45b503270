package config

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/internal/postgres"
)

type Config struct {
	Database string          `mapstructure:"database"` // Database to store deal state. e.g. `postgres` | `memory`
	Postgres postgres.Config `mapstructure:"postgres"`
	TaxSink  common.Address  `mapstructure:"tax_sink"` // Treasury principal receiving the tax portion of every settlement.
}
