package restapi

import (
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/lo"
)

const routesPrefix = "/api/"

// RestRouteManager hands out the route groups of the REST API and keeps track of the registered routes.
type RestRouteManager struct {
	echo   *echo.Echo
	routes *shrinkingmap.ShrinkingMap[string, *echo.Group]
}

func NewRestRouteManager(e *echo.Echo) *RestRouteManager {
	return &RestRouteManager{
		echo:   e,
		routes: shrinkingmap.New[string, *echo.Group](),
	}
}

// AddRoute returns the route group for the given route below /api/, e.g. "prices/v1". Adding the same route twice
// returns the same group.
func (p *RestRouteManager) AddRoute(route string) *echo.Group {
	route = strings.Trim(route, "/")

	group, _ := p.routes.GetOrCreate(route, func() *echo.Group {
		return p.echo.Group(routesPrefix + route)
	})

	return group
}

// Routes returns the registered routes in sorted order.
func (p *RestRouteManager) Routes() []string {
	routes := p.routes.Keys()
	slices.Sort(routes)

	return lo.Map(routes, func(route string) string {
		return routesPrefix + route
	})
}
