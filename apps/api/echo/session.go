package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/session"
)

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// AuthResponse is returned by login & register: the active identity and its bearer token.
	AuthResponse struct {
		User  identity.Identity `json:"user"`
		Token string            `json:"token"`
	}

	DashboardResponse struct {
		View     identity.Role     `json:"view"`
		Greeting string            `json:"greeting"`
		User     identity.Identity `json:"user"`
	}
)

type sessionApi struct {
	mgr      *session.Manager
	tokens   *tokenIssuer
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, auth authFunc, mgr *session.Manager, tokens *tokenIssuer, validate *validator.Validate) {
	api := sessionApi{mgr: mgr, tokens: tokens, validate: validate}

	sg := g.Group("/session")
	sg.GET("", api.retrieve)
	sg.POST("/logout", api.logout)

	// guest endpoints
	guest := guestMiddleware(mgr)
	sg.POST("/login", api.login, guest)
	sg.POST("/register", api.register, guest)

	g.GET("/dashboard", api.dashboard, auth()...)
}

// Handlers

func (api *sessionApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.mgr.State())
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	ident, err := api.mgr.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return api.respond(ctx, http.StatusOK, ident)
}

func (api *sessionApi) register(ctx echo.Context) error {
	var data identity.NewIdentity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewIdentity")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	ident, err := api.mgr.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering")
	}
	return api.respond(ctx, http.StatusCreated, ident)
}

func (api *sessionApi) respond(ctx echo.Context, code int, ident identity.Identity) error {
	token, err := api.tokens.issue(ident)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, AuthResponse{User: ident, Token: token})
}

func (api *sessionApi) logout(ctx echo.Context) error {
	if err := api.mgr.Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) dashboard(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	activity := "learning"
	if ident.IsTeacher() {
		activity = "class"
	}
	return ctx.JSON(http.StatusOK, DashboardResponse{
		View:     ident.Role,
		Greeting: "Welcome back, " + ident.Name + "! Here's an overview of your " + activity + " activity.",
		User:     ident,
	})
}
