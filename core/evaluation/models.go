package evaluation

import "github.com/pkg/errors"

// Grade levels
const (
	GradeMiddle   GradeLevel = "middle"
	GradeHigh     GradeLevel = "high"
	GradeCollege  GradeLevel = "college"
	GradeGraduate GradeLevel = "graduate"

	DefaultGradeLevel = GradeCollege
)

// Feedback list lengths
const (
	StrengthCount    = 3
	ImprovementCount = 3
	GrammarCount     = 2
)

var (
	AllGradeLevels = []GradeLevel{GradeMiddle, GradeHigh, GradeCollege, GradeGraduate}

	ErrEssayTooShort        = errors.New("essay must be at least 100 characters long")
	ErrInvalidGradeLevel    = errors.New("invalid grade level")
	ErrMalformedFeedback    = errors.New("malformed feedback")
	ErrUnknownQuiz          = errors.New("quiz not found")
	ErrIncompleteSubmission = errors.New("please answer all questions before submitting")
	ErrUnknownQuestion      = errors.New("question not found")
	ErrUnknownOption        = errors.New("option not found")
	ErrNotSubmitted         = errors.New("quiz not submitted")
)

type GradeLevel string

func (g GradeLevel) Valid() bool {
	for _, lvl := range AllGradeLevels {
		if g == lvl {
			return true
		}
	}
	return false
}

type (
	EssayRequest struct {
		Text       string     `json:"text" validate:"notblank"`
		Prompt     string     `json:"prompt"`
		GradeLevel GradeLevel `json:"grade_level" validate:"omitempty,oneof=middle high college graduate"`
		Title      string     `json:"title"`
	}

	GrammarFeedback struct {
		Issue      string `json:"issue"`
		Suggestion string `json:"suggestion"`
	}

	EssayResult struct {
		Score           int               `json:"score"`
		OverallFeedback string            `json:"overall_feedback"`
		Strengths       []string          `json:"strengths"`
		Improvements    []string          `json:"improvements"`
		GrammarFeedback []GrammarFeedback `json:"grammar_feedback"`
	}

	QuestionResult struct {
		QuestionID    int    `json:"question_id"`
		Answer        string `json:"answer"`
		CorrectAnswer string `json:"correct_answer"`
		Correct       bool   `json:"correct"`
	}

	QuizResult struct {
		QuizKey   string           `json:"quiz_key"`
		Score     int              `json:"score"`
		Correct   int              `json:"correct"`
		Total     int              `json:"total"`
		Questions []QuestionResult `json:"questions"`
	}
)

// ClampScore bounds score to [0, 100].
func ClampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// Normalize clamps the score and enforces the feedback list lengths. Extra entries are dropped;
// missing ones are an ErrMalformedFeedback.
func (r EssayResult) Normalize() (EssayResult, error) {
	if len(r.Strengths) < StrengthCount || len(r.Improvements) < ImprovementCount || len(r.GrammarFeedback) < GrammarCount {
		return EssayResult{}, errors.Wrapf(ErrMalformedFeedback, "got %d strengths, %d improvements, %d grammar items",
			len(r.Strengths), len(r.Improvements), len(r.GrammarFeedback))
	}
	r.Score = ClampScore(r.Score)
	r.Strengths = r.Strengths[:StrengthCount]
	r.Improvements = r.Improvements[:ImprovementCount]
	r.GrammarFeedback = r.GrammarFeedback[:GrammarCount]
	return r, nil
}
