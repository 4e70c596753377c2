// Package jwt issues and verifies the API tokens of the node. Tokens are signed with HMAC-SHA256 under a secret that is
// derived from the node's private key and a salt, so changing the salt invalidates all issued tokens.
package jwt

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/minio/sha256-simd"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

const (
	// AuthScheme is the scheme of the Authorization header.
	AuthScheme = "Bearer"

	// ContextKey is the key under which the parsed token is stored in the echo context.
	ContextKey = "jwt"

	apiSubject = "API"
)

var (
	ErrJWTInvalidClaims = echo.NewHTTPError(401, "invalid jwt claims")
	ErrInvalidSecret    = ierrors.New("invalid secret")
)

// AuthClaims are the claims of an API token.
type AuthClaims struct {
	jwt.StandardClaims
}

func (c *AuthClaims) compare(field string, expected string) bool {
	if field == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(field), []byte(expected)) == 1
}

// VerifySubject compares the subject of the token with the expected one.
func (c *AuthClaims) VerifySubject(expected string) bool {
	return c.compare(c.Subject, expected)
}

// Auth issues and verifies the API tokens of a node.
type Auth struct {
	subject        string
	sessionTimeout time.Duration
	nodeID         string
	secret         []byte
}

// NewAuth creates an Auth for the node with the given identity. A session timeout of zero issues tokens that never
// expire.
func NewAuth(salt string, sessionTimeout time.Duration, nodeID string, privateKey ed25519.PrivateKey) (*Auth, error) {
	if len(salt) == 0 {
		return nil, ierrors.Wrap(ErrInvalidSecret, "salt must not be empty")
	}

	secretHash := sha256.Sum256(append(privateKey[:], []byte(salt)...))

	return &Auth{
		subject:        apiSubject,
		sessionTimeout: sessionTimeout,
		nodeID:         nodeID,
		secret:         secretHash[:],
	}, nil
}

// Middleware returns an echo middleware that requires a valid token on all requests that are not skipped. The allow
// func decides whether the claims grant access to the requested route.
func (j *Auth) Middleware(skipper middleware.Skipper, allow func(c echo.Context, subject string, claims *AuthClaims) bool) echo.MiddlewareFunc {
	config := middleware.JWTConfig{
		ContextKey:    ContextKey,
		Claims:        &AuthClaims{},
		SigningKey:    j.secret,
		SigningMethod: middleware.AlgorithmHS256,
		AuthScheme:    AuthScheme,
		TokenLookup:   "header:" + echo.HeaderAuthorization,
	}

	// checks the signature and the time based claims of the token and stores it in the context
	validate := middleware.JWTWithConfig(config)(func(echo.Context) error { return nil })

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			if err := validate(c); err != nil {
				return err
			}

			token, ok := c.Get(ContextKey).(*jwt.Token)
			if !ok {
				return ErrJWTInvalidClaims
			}

			claims, ok := token.Claims.(*AuthClaims)
			if !ok || !claims.VerifyAudience(j.nodeID, true) {
				return ErrJWTInvalidClaims
			}

			if !allow(c, j.subject, claims) {
				return ErrJWTInvalidClaims
			}

			return next(c)
		}
	}
}

// IssueJWT issues a new API token.
func (j *Auth) IssueJWT() (string, error) {
	now := time.Now()

	stdClaims := jwt.StandardClaims{
		Subject:   j.subject,
		Issuer:    j.nodeID,
		Audience:  j.nodeID,
		Id:        lo.PanicOnErr(uuid.NewRandom()).String(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
	}

	if j.sessionTimeout > 0 {
		stdClaims.ExpiresAt = now.Add(j.sessionTimeout).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &AuthClaims{StandardClaims: stdClaims})

	return token.SignedString(j.secret)
}

// VerifyJWT parses the token and checks its signature, time based claims and audience.
func (j *Auth) VerifyJWT(token string, allow func(claims *AuthClaims) bool) bool {
	parsed, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierrors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}

	claims, ok := parsed.Claims.(*AuthClaims)
	if !ok || !claims.VerifyAudience(j.nodeID, true) {
		return false
	}

	return allow(claims)
}
