package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core/evaluation"
)

// SubmissionRequest holds the chosen option of every question, by question id.
// Explain asks for the explanations along with the result.
type SubmissionRequest struct {
	Answers map[int]string `json:"answers" validate:"required"`
	Explain bool           `json:"explain"`
}

// SubmissionResponse is a scored submission. Explanations are only revealed once it is scored.
type SubmissionResponse struct {
	evaluation.QuizResult
	Explanations []evaluation.Explanation `json:"explanations,omitempty"`
}

type quizApi struct {
	catalog  *evaluation.Catalog
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, auth authFunc, catalog *evaluation.Catalog, validate *validator.Validate) {
	api := quizApi{catalog: catalog, validate: validate}

	qg := g.Group("/quizzes", auth()...)
	qg.GET("", api.query)
	qg.POST("/:key/submissions", api.submit)
}

func (api *quizApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.catalog.Quizzes())
}

func (api *quizApi) submit(ctx echo.Context) error {
	var data SubmissionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmissionRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	key := ctx.Param("key")
	res, err := api.catalog.Score(key, data.Answers)
	if err != nil {
		return errors.Wrap(err, "scoring quiz")
	}

	resp := SubmissionResponse{QuizResult: res}
	if data.Explain {
		q, err := api.catalog.Quiz(key)
		if err != nil {
			return err
		}
		resp.Explanations = q.Explanations()
	}
	return ctx.JSON(http.StatusOK, resp)
}
