package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/presentation"
)

type presentationApi struct {
	gen      *presentation.Generator
	validate *validator.Validate
}

func registerPresentationAPI(g *echo.Group, auth authFunc, gen *presentation.Generator, validate *validator.Validate) {
	api := presentationApi{gen: gen, validate: validate}

	pg := g.Group("/presentations", auth(identity.RoleTeacher)...)
	pg.POST("", api.generate)
}

func (api *presentationApi) generate(ctx echo.Context) error {
	var data presentation.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to presentation.Request")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	deck, err := api.gen.Generate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "generating presentation")
	}
	return ctx.JSON(http.StatusOK, deck)
}
