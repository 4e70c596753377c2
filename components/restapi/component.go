package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/bytes"
	"go.uber.org/dig"

	"github.com/iotaledger/collection-pricing/pkg/daemon"
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/jwt"
	"github.com/iotaledger/collection-pricing/pkg/metrics"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/requesthandler"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/collection-pricing/pkg/retainer/eventretainer"
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/inx-app/pkg/httpserver"
)

func init() {
	Component = &app.Component{
		Name:             "RestAPI",
		DepsFunc:         func(cDeps dependencies) { deps = cDeps },
		Params:           params,
		InitConfigParams: initConfigParams,
		Provide:          provide,
		Configure:        configure,
		Run:              run,
		IsEnabled: func(c *dig.Container) bool {
			return ParamsRestAPI.Enabled
		},
	}
}

var (
	Component *app.Component
	deps      dependencies
	jwtAuth   *jwt.Auth
)

type dependencies struct {
	dig.In
	Echo               *echo.Echo
	Engine             *engine.Engine
	RestAPIBindAddress string             `name:"restAPIBindAddress"`
	NodePrivateKey     ed25519.PrivateKey `name:"nodePrivateKey"`
	NodeID             model.Identity     `name:"nodeID"`
	RestRouteManager   *restapi.RestRouteManager
	RequestHandler     *requesthandler.RequestHandler
	ServerMetrics      *metrics.ServerMetrics
}

func initConfigParams(c *dig.Container) error {
	type cfgResult struct {
		dig.Out
		RestAPIBindAddress string `name:"restAPIBindAddress"`
		RestAPIMaxPageSize int    `name:"restAPIMaxPageSize"`
	}

	if err := c.Provide(func() cfgResult {
		return cfgResult{
			RestAPIBindAddress: ParamsRestAPI.BindAddress,
			RestAPIMaxPageSize: int(ParamsRestAPI.MaxPageSize),
		}
	}); err != nil {
		Component.LogPanic(err.Error())
	}

	return nil
}

func provide(c *dig.Container) error {
	if err := c.Provide(func() *echo.Echo {
		e := httpserver.NewEcho(
			Component.Logger,
			nil,
			ParamsRestAPI.DebugRequestLoggerEnabled,
		)
		e.Use(middleware.CORS())
		e.Use(middleware.Gzip())
		e.Use(middleware.BodyLimit(ParamsRestAPI.Limits.MaxBodyLength))

		return e
	}); err != nil {
		Component.LogPanic(err.Error())
	}

	if err := c.Provide(func() *metrics.ServerMetrics {
		return &metrics.ServerMetrics{}
	}); err != nil {
		Component.LogPanic(err.Error())
	}

	type routeManagerDeps struct {
		dig.In
		Echo *echo.Echo
	}

	if err := c.Provide(func(deps routeManagerDeps) *restapi.RestRouteManager {
		return restapi.NewRestRouteManager(deps.Echo)
	}); err != nil {
		Component.LogPanic(err.Error())
	}

	type requestHandlerDeps struct {
		dig.In
		Engine        *engine.Engine
		EventRetainer *eventretainer.EventRetainer
		PriceManager  *pricemanager.Program
	}

	if err := c.Provide(func(deps requestHandlerDeps) (*requesthandler.RequestHandler, error) {
		addressCacheSize, err := bytes.Parse(ParamsRestAPI.AddressCacheSize)
		if err != nil {
			return nil, ierrors.Wrapf(err, "invalid address cache size %q", ParamsRestAPI.AddressCacheSize)
		}

		return requesthandler.New(deps.Engine, deps.EventRetainer, deps.PriceManager,
			requesthandler.WithAddressCacheSize(int(addressCacheSize)),
		), nil
	}); err != nil {
		Component.LogPanic(err.Error())
	}

	return nil
}

func configure() error {
	deps.Echo.Use(metricsMiddleware())
	deps.Echo.Use(apiMiddleware())
	setupRoutes()

	return nil
}

func run() error {
	Component.LogInfo("Starting REST-API server ...")

	if err := Component.Daemon().BackgroundWorker("REST-API server", func(ctx context.Context) {
		Component.LogInfo("Starting REST-API server ... done")

		bindAddr := deps.RestAPIBindAddress

		go func() {
			Component.LogInfof("You can now access the API using: http://%s", bindAddr)
			if err := deps.Echo.Start(bindAddr); err != nil && !ierrors.Is(err, http.ErrServerClosed) {
				Component.LogWarnf("Stopped REST-API server due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Component.LogInfo("Stopping REST-API server ...")

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCtxCancel()

		//nolint:contextcheck // false positive
		if err := deps.Echo.Shutdown(shutdownCtx); err != nil {
			Component.LogWarn(err.Error())
		}

		deps.RequestHandler.Shutdown()

		Component.LogInfo("Stopping REST-API server ... done")
	}, daemon.PriorityRestAPI); err != nil {
		Component.LogPanicf("failed to start worker: %s", err)
	}

	return nil
}
