package config

import (
	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/internal/postgres"
)

type Config struct {
	Database      string          `mapstructure:"database"` // Database to store registry and ledger state. e.g. `postgres` | `memory`
	Postgres      postgres.Config `mapstructure:"postgres"`
	Administrator common.Address  `mapstructure:"administrator"` // Principal allowed to register asset classes.
}
