package evaluation

import (
	"fmt"

	"github.com/smartgrade/smartgrade/core"
)

// Attempt tracks one pass through a quiz: answers, submission and explanations.
// It is not safe for concurrent use.
type Attempt struct {
	quiz     Quiz
	notifier core.Notifier

	answers          map[int]string
	submitted        bool
	result           QuizResult
	showExplanations bool
}

// NewAttempt starts an attempt on the quiz named key. notifier may be nil.
func (c *Catalog) NewAttempt(key string, notifier core.Notifier) (*Attempt, error) {
	q, err := c.Quiz(key)
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = core.NopNotifier
	}
	return &Attempt{quiz: q, notifier: notifier, answers: make(map[int]string)}, nil
}

func (a *Attempt) Quiz() Quiz {
	return a.quiz
}

// Answer records option for question id, replacing any previous choice. Answers are locked once submitted.
func (a *Attempt) Answer(id int, option string) error {
	qn, ok := a.quiz.question(id)
	if !ok {
		return ErrUnknownQuestion
	}
	if !qn.hasOption(option) {
		return ErrUnknownOption
	}
	if a.submitted {
		return nil
	}
	a.answers[id] = option
	return nil
}

// Answers returns a copy of the recorded answers.
func (a *Attempt) Answers() map[int]string {
	res := make(map[int]string, len(a.answers))
	for id, ans := range a.answers {
		res[id] = ans
	}
	return res
}

// Submit scores the attempt. An incomplete attempt is rejected and left as is.
func (a *Attempt) Submit() (QuizResult, error) {
	res, err := score(a.quiz, a.answers)
	if err != nil {
		a.notifier.Notify(core.NoticeWarning, "Please answer all questions before submitting")
		return QuizResult{}, err
	}

	a.result = res
	a.submitted = true
	a.notifier.Notify(core.NoticeSuccess, fmt.Sprintf("Quiz submitted! Your score: %d%%", res.Score))
	return res, nil
}

func (a *Attempt) Submitted() bool {
	return a.submitted
}

// Score is 0 until the attempt is submitted.
func (a *Attempt) Score() int {
	return a.result.Score
}

func (a *Attempt) Result() (QuizResult, bool) {
	return a.result, a.submitted
}

// Explanations reveals the bundled explanations of a submitted attempt.
func (a *Attempt) Explanations() ([]Explanation, error) {
	if !a.submitted {
		return nil, ErrNotSubmitted
	}
	if !a.showExplanations {
		a.showExplanations = true
		a.notifier.Notify(core.NoticeSuccess, "AI explanations loaded")
	}
	return a.quiz.Explanations(), nil
}

func (a *Attempt) ShowingExplanations() bool {
	return a.showExplanations
}

// Retake clears answers, score and explanations.
func (a *Attempt) Retake() {
	a.answers = make(map[int]string)
	a.submitted = false
	a.result = QuizResult{}
	a.showExplanations = false
}
