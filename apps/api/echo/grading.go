package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core/evaluation"
)

type gradingApi struct {
	svc      *evaluation.Service
	validate *validator.Validate
}

func registerGradingAPI(g *echo.Group, auth authFunc, svc *evaluation.Service, validate *validator.Validate) {
	api := gradingApi{svc: svc, validate: validate}

	gg := g.Group("/grading", auth()...)
	gg.POST("/essays", api.gradeEssay)
}

func (api *gradingApi) gradeEssay(ctx echo.Context) error {
	var data evaluation.EssayRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EssayRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	res, err := api.svc.GradeEssay(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "grading essay")
	}
	return ctx.JSON(http.StatusOK, res)
}
