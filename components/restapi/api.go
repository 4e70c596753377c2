package restapi

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iotaledger/collection-pricing/pkg/jwt"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
)

func matchRoutes(c echo.Context, regexes []*regexp.Regexp) bool {
	loweredPath := strings.ToLower(c.Request().URL.Path)

	for _, reg := range regexes {
		if reg.MatchString(loweredPath) {
			return true
		}
	}

	return false
}

// metricsMiddleware counts the handled requests. It runs before the authorization, so rejected requests are counted too.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deps.ServerMetrics.Requests.Inc()

			if c.Request().Method == http.MethodPost && strings.HasSuffix(c.Request().URL.Path, "/transactions") {
				deps.ServerMetrics.SubmittedTransactions.Inc()
			}

			err := next(c)
			if err != nil {
				deps.ServerMetrics.FailedRequests.Inc()
			}

			return err
		}
	}
}

func apiMiddleware() echo.MiddlewareFunc {
	publicRoutesRegEx, err := restapi.CompileRoutesAsRegexes(ParamsRestAPI.PublicRoutes)
	if err != nil {
		Component.LogFatal(err.Error())
	}

	protectedRoutesRegEx, err := restapi.CompileRoutesAsRegexes(ParamsRestAPI.ProtectedRoutes)
	if err != nil {
		Component.LogFatal(err.Error())
	}

	exposedRoutesRegEx := append(publicRoutesRegEx[:len(publicRoutesRegEx):len(publicRoutesRegEx)], protectedRoutesRegEx...)

	matchPublic := func(c echo.Context) bool {
		return matchRoutes(c, publicRoutesRegEx)
	}

	matchExposed := func(c echo.Context) bool {
		return matchRoutes(c, exposedRoutesRegEx)
	}

	// configure JWT auth
	salt := ParamsRestAPI.JWTAuth.Salt
	if len(salt) == 0 {
		Component.LogFatalf("'%s' should not be empty", Component.App().Config().GetParameterPath(&(ParamsRestAPI.JWTAuth.Salt)))
	}

	// API tokens do not expire.
	jwtAuth, err = jwt.NewAuth(salt,
		0,
		deps.NodeID.String(),
		deps.NodePrivateKey,
	)
	if err != nil {
		Component.LogPanicf("JWT auth initialization failed: %s", err)
	}

	jwtAllow := func(c echo.Context, subject string, claims *jwt.AuthClaims) bool {
		// Allow all JWT created for the API if the endpoints are exposed
		if matchExposed(c) {
			return claims.VerifySubject(subject)
		}

		return false
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		// Skip routes matching the publicRoutes
		publicSkipper := func(c echo.Context) bool {
			return matchPublic(c)
		}

		jwtMiddlewareHandler := jwtAuth.Middleware(publicSkipper, jwtAllow)(next)

		return func(c echo.Context) error {
			// Check if the route should be exposed (public or protected)
			if matchExposed(c) {
				// Apply JWT middleware
				return jwtMiddlewareHandler(c)
			}

			return echo.ErrForbidden
		}
	}
}
