package restapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/inx-app/pkg/httpserver"
)

const (
	// ParameterCollection is used to identify a collection by its base58 encoded identity.
	ParameterCollection = "collection"

	// ParameterTransactionID is used to identify a transaction by its hex encoded ID.
	ParameterTransactionID = "transactionID"

	// ParameterTree is used to identify a tree by its base58 encoded address.
	ParameterTree = "tree"

	// QueryParameterPageSize is used to specify the page size.
	QueryParameterPageSize = "pageSize"

	// QueryParameterCursor is used to specify the point from which the response should continue for paginated results.
	QueryParameterCursor = "cursor"
)

// ParseIdentityParam parses a base58 encoded identity from the named path parameter.
func ParseIdentityParam(c echo.Context, parameterName string) (model.Identity, error) {
	identity, err := model.IdentityFromBase58(c.Param(parameterName))
	if err != nil {
		return model.Identity{}, ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid %s, error: %s", parameterName, err)
	}

	return identity, nil
}

// ParseTransactionIDParam parses a hex encoded transaction ID from the named path parameter.
func ParseTransactionIDParam(c echo.Context, parameterName string) (model.TransactionID, error) {
	transactionID, err := model.TransactionIDFromHexString(c.Param(parameterName))
	if err != nil {
		return model.EmptyTransactionID, ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid transaction ID, error: %s", err)
	}

	return transactionID, nil
}

// ParsePageSizeQueryParam parses the page size from the query parameters. It returns maxPageSize if the parameter is
// missing and caps larger values.
func ParsePageSizeQueryParam(c echo.Context, maxPageSize int) (int, error) {
	value := c.QueryParam(QueryParameterPageSize)
	if value == "" {
		return maxPageSize, nil
	}

	pageSize, err := strconv.Atoi(value)
	if err != nil || pageSize <= 0 {
		return 0, ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid %s: %s", QueryParameterPageSize, value)
	}

	return min(pageSize, maxPageSize), nil
}

// ParseCursorQueryParam parses the event index a paginated request continues from. A missing cursor starts at 0.
func ParseCursorQueryParam(c echo.Context) (uint64, error) {
	value := c.QueryParam(QueryParameterCursor)
	if value == "" {
		return 0, nil
	}

	cursor, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid %s: %s", QueryParameterCursor, value)
	}

	return cursor, nil
}
