package management

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/iotaledger/collection-pricing/components/restapi"
	"github.com/iotaledger/collection-pricing/pkg/requesthandler"
	restapipkg "github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/inx-app/pkg/httpserver"
)

const (
	// RouteDatabaseSizes is the route to get the sizes of the databases.
	// GET returns the sizes.
	RouteDatabaseSizes = "/database/sizes"

	// RouteReceiptsPrune is the route to manually prune the receipts of failed transactions.
	// POST prunes the receipts.
	RouteReceiptsPrune = "/receipts/prune"
)

func init() {
	Component = &app.Component{
		Name:      "ManagementAPIV1",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Configure: configure,
		IsEnabled: func(c *dig.Container) bool {
			return restapi.ParamsRestAPI.Enabled
		},
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	RestRouteManager *restapipkg.RestRouteManager
	RequestHandler   *requesthandler.RequestHandler
}

func configure() error {
	// check if RestAPI plugin is disabled
	if !Component.App().IsComponentEnabled(restapi.Component.Identifier()) {
		Component.LogPanicf("RestAPI plugin needs to be enabled to use the %s plugin", Component.Name)
	}

	routeGroup := deps.RestRouteManager.AddRoute("management/v1")

	routeGroup.GET(RouteDatabaseSizes, func(c echo.Context) error {
		return httpserver.JSONResponse(c, http.StatusOK, deps.RequestHandler.DatabaseSizes())
	})

	routeGroup.POST(RouteReceiptsPrune, func(c echo.Context) error {
		request := &restapipkg.PruneReceiptsRequest{}
		if err := c.Bind(request); err != nil {
			return ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid request, error: %s", err)
		}

		resp, err := deps.RequestHandler.PruneFailedReceipts(request)
		if err != nil {
			return err
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	return nil
}
