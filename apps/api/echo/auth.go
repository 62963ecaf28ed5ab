package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/identity"
)

const (
	contextTokenKey    = "userToken"
	contextIdentityKey = "identity"
)

// authFunc returns the middleware chain guarding a route: bearer token, then the session.
type authFunc func(roles ...identity.Role) []echo.MiddlewareFunc

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string        `json:"name,omitempty"`
	Email string        `json:"email,omitempty"`
	Role  identity.Role `json:"role,omitempty"`
}

type tokenIssuer struct {
	appName    string
	signingKey []byte
	expiration time.Duration
	now        func() time.Time
}

func newTokenIssuer(conf *core.Config) *tokenIssuer {
	return &tokenIssuer{
		appName:    conf.AppName,
		signingKey: []byte(conf.SecretKey),
		expiration: conf.JWTExpirationDelta,
		now:        time.Now,
	}
}

func (ti *tokenIssuer) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    ti.signingKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// Claims builds the claims of a token issued to ident. Each token gets a unique ID.
func (ti *tokenIssuer) Claims(ident identity.Identity) *Claims {
	now := ti.now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    ti.appName,
			Subject:   ident.ID,
			ExpiresAt: now.Add(ti.expiration).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  ident.Name,
		Email: ident.Email,
		Role:  ident.Role,
	}
}

// Identity returns the identity the token was issued to.
func (c Claims) Identity() identity.Identity {
	return identity.Identity{ID: c.Subject, Name: c.Name, Email: c.Email, Role: c.Role}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (ti *tokenIssuer) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)

	ss, err := token.SignedString(ti.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (ti *tokenIssuer) issue(ident identity.Identity) (string, error) {
	return ti.GenerateToken(ti.Claims(ident))
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextIdentity(ctx echo.Context) (identity.Identity, error) {
	if ident, ok := ctx.Get(contextIdentityKey).(identity.Identity); ok {
		return ident, nil
	}
	return identity.Identity{}, errUnauthorized
}
