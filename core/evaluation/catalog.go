package evaluation

import (
	_ "embed"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed quizzes.yaml
var quizzesYAML []byte

type (
	Question struct {
		ID          int      `yaml:"id" json:"id"`
		Text        string   `yaml:"question" json:"question"`
		Options     []string `yaml:"options" json:"options"`
		Answer      string   `yaml:"answer" json:"-"`
		Explanation string   `yaml:"explanation" json:"-"`
	}

	Quiz struct {
		Key       string     `yaml:"key" json:"key"`
		Title     string     `yaml:"title" json:"title"`
		Questions []Question `yaml:"questions" json:"questions"`
	}

	Explanation struct {
		QuestionID    int    `json:"question_id"`
		Question      string `json:"question"`
		CorrectAnswer string `json:"correct_answer"`
		Explanation   string `json:"explanation"`
	}

	// Catalog is the read-only set of quizzes.
	Catalog struct {
		quizzes []Quiz
		byKey   map[string]int
	}
)

func (q Quiz) question(id int) (Question, bool) {
	for _, qn := range q.Questions {
		if qn.ID == id {
			return qn, true
		}
	}
	return Question{}, false
}

func (qn Question) hasOption(opt string) bool {
	for _, o := range qn.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Explanations returns the bundled explanation of every question, in order.
func (q Quiz) Explanations() []Explanation {
	res := make([]Explanation, 0, len(q.Questions))
	for _, qn := range q.Questions {
		res = append(res, Explanation{
			QuestionID:    qn.ID,
			Question:      qn.Text,
			CorrectAnswer: qn.Answer,
			Explanation:   qn.Explanation,
		})
	}
	return res
}

// DefaultCatalog loads the bundled quizzes.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(quizzesYAML)
}

// MustDefaultCatalog is DefaultCatalog for wiring code; the bundled document is validated by tests.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes a YAML list of quizzes and validates it.
func ParseCatalog(data []byte) (*Catalog, error) {
	var quizzes []Quiz
	if err := yaml.Unmarshal(data, &quizzes); err != nil {
		return nil, errors.Wrap(err, "decoding quizzes")
	}

	c := &Catalog{quizzes: quizzes, byKey: make(map[string]int, len(quizzes))}
	for i, q := range quizzes {
		if strings.TrimSpace(q.Key) == "" {
			return nil, errors.Errorf("quiz #%d: missing key", i+1)
		}
		if _, dup := c.byKey[q.Key]; dup {
			return nil, errors.Errorf("quiz %s: duplicate key", q.Key)
		}
		if len(q.Questions) == 0 {
			return nil, errors.Errorf("quiz %s: no questions", q.Key)
		}

		ids := make(map[int]bool, len(q.Questions))
		for _, qn := range q.Questions {
			if ids[qn.ID] {
				return nil, errors.Errorf("quiz %s: duplicate question id %d", q.Key, qn.ID)
			}
			ids[qn.ID] = true
			if !qn.hasOption(qn.Answer) {
				return nil, errors.Errorf("quiz %s: question %d: answer %q is not an option", q.Key, qn.ID, qn.Answer)
			}
		}
		c.byKey[q.Key] = i
	}
	return c, nil
}

// Quizzes returns every quiz, in catalog order.
func (c *Catalog) Quizzes() []Quiz {
	return append([]Quiz(nil), c.quizzes...)
}

func (c *Catalog) Quiz(key string) (Quiz, error) {
	i, ok := c.byKey[key]
	if !ok {
		return Quiz{}, ErrUnknownQuiz
	}
	return c.quizzes[i], nil
}

// Score grades answers ({question id: chosen option}) against the quiz key.
// Every question needs a non-empty answer; answers to unknown questions are ignored.
func (c *Catalog) Score(key string, answers map[int]string) (QuizResult, error) {
	q, err := c.Quiz(key)
	if err != nil {
		return QuizResult{}, err
	}
	return score(q, answers)
}

func score(q Quiz, answers map[int]string) (QuizResult, error) {
	for _, qn := range q.Questions {
		if answers[qn.ID] == "" {
			return QuizResult{}, ErrIncompleteSubmission
		}
	}

	res := QuizResult{
		QuizKey:   q.Key,
		Total:     len(q.Questions),
		Questions: make([]QuestionResult, 0, len(q.Questions)),
	}
	for _, qn := range q.Questions {
		ans := answers[qn.ID]
		ok := ans == qn.Answer
		if ok {
			res.Correct++
		}
		res.Questions = append(res.Questions, QuestionResult{
			QuestionID:    qn.ID,
			Answer:        ans,
			CorrectAnswer: qn.Answer,
			Correct:       ok,
		})
	}
	res.Score = ClampScore(int(math.Round(100 * float64(res.Correct) / float64(res.Total))))
	return res, nil
}
