package restapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/inx-app/pkg/httpserver"
)

const (
	// RouteHealth is the route for querying a node's health status.
	RouteHealth = "/health"

	// RouteRoutes is the route for getting the routes the node exposes.
	RouteRoutes = "/api/routes"
)

func setupRoutes() {
	deps.Echo.GET(RouteHealth, func(c echo.Context) error {
		if deps.Engine.IsShutdown() {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	})

	deps.Echo.GET(RouteRoutes, func(c echo.Context) error {
		resp := &restapi.RoutesResponse{
			Routes: deps.RestRouteManager.Routes(),
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})
}
