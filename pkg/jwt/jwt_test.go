package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/jwt"
	"github.com/iotaledger/hive.go/crypto/ed25519"
)

func newAuth(t *testing.T, salt string, sessionTimeout time.Duration) *jwt.Auth {
	seed := make([]byte, 32)
	seed[0] = 1

	auth, err := jwt.NewAuth(salt, sessionTimeout, "node", ed25519.PrivateKeyFromSeed(seed))
	require.NoError(t, err)

	return auth
}

func allowAll(*jwt.AuthClaims) bool {
	return true
}

func TestAuth_IssueAndVerify(t *testing.T) {
	auth := newAuth(t, "salt", 0)

	token, err := auth.IssueJWT()
	require.NoError(t, err)

	require.True(t, auth.VerifyJWT(token, allowAll))
	require.True(t, auth.VerifyJWT(token, func(claims *jwt.AuthClaims) bool {
		return claims.VerifySubject("API")
	}))
	require.False(t, auth.VerifyJWT(token, func(claims *jwt.AuthClaims) bool {
		return claims.VerifySubject("Dashboard")
	}))

	// a different salt invalidates the token
	require.False(t, newAuth(t, "other", 0).VerifyJWT(token, allowAll))

	require.False(t, auth.VerifyJWT("not a token", allowAll))

	// every token carries its own id
	otherToken, err := auth.IssueJWT()
	require.NoError(t, err)
	require.NotEqual(t, token, otherToken)

	_, err = jwt.NewAuth("", 0, "node", ed25519.PrivateKey{})
	require.ErrorIs(t, err, jwt.ErrInvalidSecret)
}

func TestAuth_Middleware(t *testing.T) {
	auth := newAuth(t, "salt", time.Hour)

	token, err := auth.IssueJWT()
	require.NoError(t, err)

	e := echo.New()
	handler := auth.Middleware(func(c echo.Context) bool {
		return c.Request().URL.Path == "/public"
	}, func(_ echo.Context, subject string, claims *jwt.AuthClaims) bool {
		return claims.VerifySubject(subject)
	})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	serve := func(path string, authorization string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authorization != "" {
			req.Header.Set(echo.HeaderAuthorization, authorization)
		}
		rec := httptest.NewRecorder()

		return rec, handler(e.NewContext(req, rec))
	}

	rec, err := serve("/public", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = serve("/protected", "")
	require.Error(t, err)

	_, err = serve("/protected", jwt.AuthScheme+" "+token+"x")
	require.Error(t, err)

	rec, err = serve("/protected", jwt.AuthScheme+" "+token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}
