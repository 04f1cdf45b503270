package config

import (
	"context"
	"strings"
	"sync"

	assetsconfig "github.com/assetdeal/registry-network/modules/assets/config"
	dealsconfig "github.com/assetdeal/registry-network/modules/deals/config"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/assetdeal/registry-network/pkg/middleware/requestlogger"
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "text",
		},
		HTTPServer: HTTPServer{
			Port: 8080,
		},
	}
)

type Config struct {
	Logger        logger.Config `mapstructure:"logger"`
	HTTPServer    HTTPServer    `mapstructure:"http_server"`
	EnableModules []string      `mapstructure:"enable_modules"`
	Modules       Modules       `mapstructure:"modules"`
}

type HTTPServer struct {
	Port   int                  `mapstructure:"port"`
	Logger requestlogger.Config `mapstructure:"logger"`
}

type Modules struct {
	Assets assetsconfig.Config `mapstructure:"assets"`
	Deals  dealsconfig.Config  `mapstructure:"deals"`
}

// BindPFlag binds a cobra flag to a configuration key.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Failed to bind flag to configuration", slogx.String("key", key), slogx.Error(err))
	}
}

// Parse loads the configuration from the given file (or ./config.yaml when
// empty), with environment variable overrides. Subsequent calls return the
// cached configuration.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slogx.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		// Address-typed fields are decoded from their hex text form.
		decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		))
		if err := viper.Unmarshal(&config, decodeHook); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
	})

	return *config
}

// Load returns the loaded configuration. It parses the default config file if
// Parse has not been called yet.
func Load() Config {
	return Parse("")
}
