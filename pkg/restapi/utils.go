package restapi

import (
	"regexp"
	"strings"

	"github.com/iotaledger/hive.go/ierrors"
)

// CompileRouteAsRegex compiles a route of the config. Routes starting with "^" are raw regular expressions, all
// others are matched case-insensitively as a whole and may contain "*" as a wildcard.
func CompileRouteAsRegex(route string) (*regexp.Regexp, error) {
	if strings.HasPrefix(route, "^") {
		return regexp.Compile(route)
	}

	pattern := strings.ReplaceAll(regexp.QuoteMeta(strings.ToLower(route)), `\*`, "(.*?)")

	return regexp.Compile("^" + pattern + "$")
}

// CompileRoutesAsRegexes compiles all routes of the config.
func CompileRoutesAsRegexes(routes []string) ([]*regexp.Regexp, error) {
	regexes := make([]*regexp.Regexp, 0, len(routes))
	for _, route := range routes {
		reg, err := CompileRouteAsRegex(route)
		if err != nil {
			return nil, ierrors.Wrapf(err, "invalid route in config: %s", route)
		}

		regexes = append(regexes, reg)
	}

	return regexes, nil
}
