package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/internal/config"
	"github.com/assetdeal/registry-network/internal/postgres"
	"github.com/assetdeal/registry-network/internal/statelock"
	"github.com/assetdeal/registry-network/modules/assets"
	assetshttphandler "github.com/assetdeal/registry-network/modules/assets/api/httphandler"
	assetsdatagateway "github.com/assetdeal/registry-network/modules/assets/datagateway"
	assetsmemory "github.com/assetdeal/registry-network/modules/assets/repository/memory"
	assetspostgres "github.com/assetdeal/registry-network/modules/assets/repository/postgres"
	assetsusecase "github.com/assetdeal/registry-network/modules/assets/usecase"
	"github.com/assetdeal/registry-network/modules/deals"
	dealshttphandler "github.com/assetdeal/registry-network/modules/deals/api/httphandler"
	dealsdatagateway "github.com/assetdeal/registry-network/modules/deals/datagateway"
	dealsmemory "github.com/assetdeal/registry-network/modules/deals/repository/memory"
	dealspostgres "github.com/assetdeal/registry-network/modules/deals/repository/postgres"
	dealsusecase "github.com/assetdeal/registry-network/modules/deals/usecase"
	"github.com/assetdeal/registry-network/pkg/errorhandler"
	"github.com/assetdeal/registry-network/pkg/logger"
	"github.com/assetdeal/registry-network/pkg/logger/slogx"
	"github.com/assetdeal/registry-network/pkg/middleware/requestlogger"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start assetdeal service",
		RunE:  runHandler,
	}

	flags := runCmd.Flags()
	flags.String("modules", "", "Enable specific modules to run. E.g. `assets,deals`")

	config.BindPFlag("enable_modules", flags.Lookup("modules"))

	return runCmd
}

const shutdownTimeout = 30 * time.Second

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New()
	do.ProvideValue(injector, conf)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName:      "AssetDeal Registry",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024)
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Errorf("%v", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		return app, nil
	})

	// Resolve enabled modules
	enabled := lo.Uniq(conf.EnableModules)
	enabled = lo.Map(enabled, func(item string, _ int) string { return strings.TrimSpace(item) })
	enabled = lo.Filter(enabled, func(item string, _ int) bool { return item != "" })
	if len(enabled) == 0 {
		enabled = []string{string(common.ModuleAssets), string(common.ModuleDeals)}
	}
	for _, module := range enabled {
		if common.Module(module) != common.ModuleAssets && common.Module(module) != common.ModuleDeals {
			return errors.Wrapf(errs.Unsupported, "module %q is not supported", module)
		}
	}
	assetsEnabled := lo.Contains(enabled, string(common.ModuleAssets))
	dealsEnabled := lo.Contains(enabled, string(common.ModuleDeals))
	if dealsEnabled && !assetsEnabled {
		return errors.Wrap(errs.InvalidArgument, "deals module requires the assets module")
	}

	app := do.MustInvoke[*fiber.App](injector)

	// Both processors share one state lock so every mutation across the
	// registry, the ledgers and the deal engine is totally ordered.
	stateLock := statelock.New()

	// Initialize assets module
	if conf.Modules.Assets.Administrator.IsZero() {
		return errors.Wrap(errs.InvalidArgument, "modules.assets.administrator is required")
	}
	var assetsDg assetsdatagateway.AssetsDataGateway
	switch strings.ToLower(conf.Modules.Assets.Database) {
	case "postgres":
		pool, err := postgres.NewPool(ctx, conf.Modules.Assets.Postgres)
		if err != nil {
			return errors.Wrap(err, "can't create assets postgres connection pool")
		}
		defer pool.Close()
		assetsDg = assetspostgres.NewRepository(pool)
	case "", "memory":
		assetsDg = assetsmemory.NewRepository()
	default:
		return errors.Wrapf(errs.Unsupported, "assets database %q is not supported", conf.Modules.Assets.Database)
	}
	assetsProcessor := assets.NewProcessor(assetsDg, stateLock, conf.Modules.Assets.Administrator)
	assetsHandler := assetshttphandler.New(assetsProcessor, assetsusecase.New(assetsDg))
	if err := assetsHandler.Mount(app); err != nil {
		return errors.Wrap(err, "can't mount assets API")
	}

	// Initialize deals module
	if dealsEnabled {
		if conf.Modules.Deals.TaxSink.IsZero() {
			return errors.Wrap(errs.InvalidArgument, "modules.deals.tax_sink is required")
		}
		var dealsDg dealsdatagateway.DealsDataGateway
		switch strings.ToLower(conf.Modules.Deals.Database) {
		case "postgres":
			pool, err := postgres.NewPool(ctx, conf.Modules.Deals.Postgres)
			if err != nil {
				return errors.Wrap(err, "can't create deals postgres connection pool")
			}
			defer pool.Close()
			dealsDg = dealspostgres.NewRepository(pool)
		case "", "memory":
			dealsDg = dealsmemory.NewRepository()
		default:
			return errors.Wrapf(errs.Unsupported, "deals database %q is not supported", conf.Modules.Deals.Database)
		}
		dealsProcessor := deals.NewProcessor(dealsDg, assets.NewLedger(assetsProcessor), stateLock, conf.Modules.Deals.TaxSink)
		dealsHandler := dealshttphandler.New(dealsProcessor, dealsusecase.New(dealsDg))
		if err := dealsHandler.Mount(app); err != nil {
			return errors.Wrap(err, "can't mount deals API")
		}
	}

	// Run API server
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := app.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "AssetDeal started", slogx.Any("modules", enabled))

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}
	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while shutting down injector", slogx.Error(err))
	}

	return nil
}
