// Package evaluation grades essays through a pluggable Evaluator and scores multiple-choice quizzes.
package evaluation

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/smartgrade/smartgrade/core"
)

// MinEssayLength is the minimum number of characters of a gradable essay, surrounding whitespace excluded.
const MinEssayLength = 100

// Evaluator produces feedback for an essay. Implementations do not enforce MinEssayLength.
type Evaluator interface {
	GradeEssay(ctx context.Context, req EssayRequest) (EssayResult, error)
}

// Service validates essay requests before handing them to an Evaluator.
type Service struct {
	evaluator Evaluator
	logger    core.Logger
}

func NewService(evaluator Evaluator, logger core.Logger) *Service {
	return &Service{evaluator: evaluator, logger: logger}
}

// Prepare checks req and fills in its defaults.
func Prepare(req EssayRequest) (EssayRequest, error) {
	if utf8.RuneCountInString(strings.TrimSpace(req.Text)) < MinEssayLength {
		return EssayRequest{}, core.NewFieldError("text", ErrEssayTooShort)
	}
	if req.GradeLevel == "" {
		req.GradeLevel = DefaultGradeLevel
	}
	if !req.GradeLevel.Valid() {
		return EssayRequest{}, core.NewFieldError("grade_level", ErrInvalidGradeLevel)
	}
	return req, nil
}

func (svc *Service) GradeEssay(ctx context.Context, req EssayRequest) (EssayResult, error) {
	req, err := Prepare(req)
	if err != nil {
		return EssayResult{}, err
	}

	svc.logger.Debug("grading essay: "+req.Title, map[string]interface{}{
		"essayLength": len(req.Text),
		"gradeLevel":  req.GradeLevel,
		"hasPrompt":   req.Prompt != "",
	})
	return svc.evaluator.GradeEssay(ctx, req)
}
