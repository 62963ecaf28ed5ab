package evaluation

import (
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}

	quizzes := c.Quizzes()
	wantKeys := []string{"math-101", "science-101", "history-101"}
	if len(quizzes) != len(wantKeys) {
		t.Fatalf("len(Quizzes()) = %d; want %d", len(quizzes), len(wantKeys))
	}
	for i, key := range wantKeys {
		q := quizzes[i]
		if q.Key != key {
			t.Errorf("Quizzes()[%d].Key = %s; want %s", i, q.Key, key)
		}
		if len(q.Questions) != 3 {
			t.Errorf("%s: %d questions; want 3", key, len(q.Questions))
		}
		for _, qn := range q.Questions {
			if len(qn.Options) != 4 || qn.Explanation == "" {
				t.Errorf("%s #%d: options=%v explanation=%q", key, qn.ID, qn.Options, qn.Explanation)
			}
		}
	}
}

func TestParseCatalog_invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml list", doc: "key: x"},
		{name: "missing key", doc: `[{title: X, questions: [{id: 1, options: [a], answer: a}]}]`},
		{name: "duplicate key", doc: `[{key: x, questions: [{id: 1, options: [a], answer: a}]}, {key: x, questions: [{id: 1, options: [a], answer: a}]}]`},
		{name: "no questions", doc: `[{key: x}]`},
		{name: "duplicate question id", doc: `[{key: x, questions: [{id: 1, options: [a], answer: a}, {id: 1, options: [a], answer: a}]}]`},
		{name: "answer not an option", doc: `[{key: x, questions: [{id: 1, options: [a, b], answer: c}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.doc)); err == nil {
				t.Error("ParseCatalog() error = nil")
			}
		})
	}
}

func TestCatalog_Score(t *testing.T) {
	c := MustDefaultCatalog()

	tests := []struct {
		name        string
		key         string
		answers     map[int]string
		wantScore   int
		wantCorrect int
		wantErr     error
	}{
		{
			name:        "math all correct",
			key:         "math-101",
			answers:     map[int]string{1: "3.14", 2: "21", 3: "11"},
			wantScore:   100,
			wantCorrect: 3,
		},
		{
			name:        "math two of three",
			key:         "math-101",
			answers:     map[int]string{1: "3.10", 2: "21", 3: "11"},
			wantScore:   67,
			wantCorrect: 2,
		},
		{
			name:        "one of three",
			key:         "science-101",
			answers:     map[int]string{1: "Energy", 2: "Ag", 3: "Cell division"},
			wantScore:   33,
			wantCorrect: 1,
		},
		{
			name:      "none correct",
			key:       "history-101",
			answers:   map[int]string{1: "1942", 2: "John Adams", 3: "Inca"},
			wantScore: 0,
		},
		{
			name:        "unknown questions ignored",
			key:         "history-101",
			answers:     map[int]string{1: "1945", 2: "George Washington", 3: "Both Maya and Aztec", 9: "x"},
			wantScore:   100,
			wantCorrect: 3,
		},
		{
			name:    "missing answer",
			key:     "math-101",
			answers: map[int]string{1: "3.14", 2: "21"},
			wantErr: ErrIncompleteSubmission,
		},
		{
			name:    "empty answer",
			key:     "math-101",
			answers: map[int]string{1: "3.14", 2: "21", 3: ""},
			wantErr: ErrIncompleteSubmission,
		},
		{
			name:    "unknown quiz",
			key:     "art-101",
			answers: map[int]string{1: "x"},
			wantErr: ErrUnknownQuiz,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.Score(tt.key, tt.answers)
			if err != tt.wantErr {
				t.Fatalf("Score() error = %v; want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if res.Score != tt.wantScore || res.Correct != tt.wantCorrect || res.Total != 3 {
				t.Errorf("Score() = %d (%d/%d); want %d (%d/3)", res.Score, res.Correct, res.Total, tt.wantScore, tt.wantCorrect)
			}
			if len(res.Questions) != 3 || res.QuizKey != tt.key {
				t.Errorf("Score() = %+v", res)
			}
		})
	}
}
