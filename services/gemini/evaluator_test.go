package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/evaluation"
	logsvc "github.com/smartgrade/smartgrade/services/logger"
)

func TestDecodeFeedback(t *testing.T) {
	valid := `{
		"score": 104,
		"overall_feedback": "Solid work.",
		"strengths": ["a", "b", "c", "d"],
		"improvements": ["e", "f", "g"],
		"grammar_feedback": [{"issue": "h", "suggestion": "i"}, {"issue": "j", "suggestion": "k"}]
	}`

	tests := []struct {
		name      string
		txt       string
		wantScore int
		wantErr   error
	}{
		{name: "plain", txt: valid, wantScore: 100},
		{name: "fenced", txt: "```json\n" + valid + "\n```", wantScore: 100},
		{name: "not json", txt: "Great essay!", wantErr: evaluation.ErrMalformedFeedback},
		{name: "short lists", txt: `{"score": 80, "strengths": ["a"]}`, wantErr: evaluation.ErrMalformedFeedback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := decodeFeedback(tt.txt)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("decodeFeedback() error = %v; want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if res.Score != tt.wantScore {
				t.Errorf("Score = %d; want %d", res.Score, tt.wantScore)
			}
			if len(res.Strengths) != 3 || len(res.Improvements) != 3 || len(res.GrammarFeedback) != 2 {
				t.Errorf("lengths = %d/%d/%d; want 3/3/2", len(res.Strengths), len(res.Improvements), len(res.GrammarFeedback))
			}
			if res.OverallFeedback != "Solid work." {
				t.Errorf("OverallFeedback = %q", res.OverallFeedback)
			}
		})
	}
}

func TestNewEvaluator_noAPIKey(t *testing.T) {
	_, err := NewEvaluator(context.Background(), core.GeminiConfig{APIKey: "  "}, logsvc.NewNopLogger())
	if err != ErrNoAPIKey {
		t.Errorf("NewEvaluator() error = %v; want %v", err, ErrNoAPIKey)
	}
}

func TestEvaluator_generate(t *testing.T) {
	errUnavailable := status.Error(codes.Unavailable, "overloaded")
	errBadKey := status.Error(codes.PermissionDenied, "API key not valid")
	ok := &genai.GenerateContentResponse{}

	tests := []struct {
		name       string
		results    []error // one per call; nil means success
		wantCalls  int
		wantSleeps []time.Duration
		wantErr    error
	}{
		{name: "first call", results: []error{nil}, wantCalls: 1},
		{
			name:       "transient then success",
			results:    []error{errUnavailable, errUnavailable, nil},
			wantCalls:  3,
			wantSleeps: []time.Duration{300 * time.Millisecond, 600 * time.Millisecond},
		},
		{
			name:       "transient every time",
			results:    []error{errUnavailable, errUnavailable, errUnavailable},
			wantCalls:  3,
			wantSleeps: []time.Duration{300 * time.Millisecond, 600 * time.Millisecond},
			wantErr:    errUnavailable,
		},
		{name: "permanent", results: []error{errBadKey}, wantCalls: 1, wantErr: errBadKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sleeps []time.Duration
			ev := &Evaluator{
				logger: logsvc.NewNopLogger(),
				sleep: func(ctx context.Context, d time.Duration) error {
					sleeps = append(sleeps, d)
					return nil
				},
			}

			calls := 0
			resp, err := ev.generate(context.Background(), func(ctx context.Context) (*genai.GenerateContentResponse, error) {
				res := tt.results[calls]
				calls++
				if res != nil {
					return nil, res
				}
				return ok, nil
			})

			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("generate() error = %v; want %v", err, tt.wantErr)
			}
			if err == nil && resp != ok {
				t.Errorf("generate() returned an unexpected response")
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d; want %d", calls, tt.wantCalls)
			}
			if len(sleeps) != len(tt.wantSleeps) {
				t.Fatalf("sleeps = %v; want %v", sleeps, tt.wantSleeps)
			}
			for i := range sleeps {
				if sleeps[i] != tt.wantSleeps[i] {
					t.Errorf("sleeps = %v; want %v", sleeps, tt.wantSleeps)
				}
			}
		})
	}
}

func TestEvaluator_generate_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ev := &Evaluator{logger: logsvc.NewNopLogger(), sleep: core.NoSleep}

	calls := 0
	_, err := ev.generate(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		calls++
		cancel()
		return nil, ctx.Err()
	})
	if err != context.Canceled {
		t.Errorf("generate() error = %v; want %v", err, context.Canceled)
	}
	if calls != 1 {
		t.Errorf("calls = %d; want 1", calls)
	}
}
