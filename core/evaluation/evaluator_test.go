package evaluation

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	logsvc "github.com/smartgrade/smartgrade/services/logger"
)

type recordingEvaluator struct {
	got EssayRequest
}

func (ev *recordingEvaluator) GradeEssay(_ context.Context, req EssayRequest) (EssayResult, error) {
	ev.got = req
	return EssayResult{Score: 80}, nil
}

func TestService_GradeEssay(t *testing.T) {
	essay := strings.Repeat("word ", 20) // 100 chars

	tests := []struct {
		name      string
		req       EssayRequest
		wantLevel GradeLevel
		wantErr   error
	}{
		{name: "default level", req: EssayRequest{Text: essay}, wantLevel: GradeCollege},
		{name: "explicit level", req: EssayRequest{Text: essay, GradeLevel: GradeHigh}, wantLevel: GradeHigh},
		{name: "invalid level", req: EssayRequest{Text: essay, GradeLevel: "kindergarten"}, wantErr: ErrInvalidGradeLevel},
		{name: "too short", req: EssayRequest{Text: strings.Repeat("a", 99)}, wantErr: ErrEssayTooShort},
		{name: "whitespace does not count", req: EssayRequest{Text: "   " + strings.Repeat("a", 99) + "\n\n"}, wantErr: ErrEssayTooShort},
		{name: "multibyte characters", req: EssayRequest{Text: strings.Repeat("é", 100)}, wantLevel: GradeCollege},
		{name: "empty", wantErr: ErrEssayTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &recordingEvaluator{}
			svc := NewService(ev, logsvc.NewNopLogger())

			_, err := svc.GradeEssay(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GradeEssay() error = %v; want %v", err, tt.wantErr)
			}
			if err == nil && ev.got.GradeLevel != tt.wantLevel {
				t.Errorf("evaluator got level %q; want %q", ev.got.GradeLevel, tt.wantLevel)
			}
		})
	}
}

func TestEssayResult_Normalize(t *testing.T) {
	full := EssayResult{
		Score:           120,
		Strengths:       []string{"a", "b", "c", "d"},
		Improvements:    []string{"a", "b", "c"},
		GrammarFeedback: []GrammarFeedback{{Issue: "a"}, {Issue: "b"}, {Issue: "c"}},
	}
	got, err := full.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.Score != 100 || len(got.Strengths) != 3 || len(got.GrammarFeedback) != 2 {
		t.Errorf("Normalize() = %+v", got)
	}

	short := full
	short.Improvements = []string{"a"}
	if _, err = short.Normalize(); err == nil {
		t.Error("Normalize() error = nil for short improvements")
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(EssayRequest{Text: "My essay.", Prompt: "Discuss climate change", GradeLevel: GradeHigh})
	for _, want := range []string{
		"expertise in high level writing",
		"responds to this prompt: Discuss climate change",
		"1. An overall score out of 100",
		"5. Specific grammar and style suggestions",
		"\n\nESSAY:\nMy essay.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BuildPrompt() = %q; missing %q", got, want)
		}
	}

	if got = BuildPrompt(EssayRequest{Text: "x"}); !strings.Contains(got, "college level") || strings.Contains(got, "prompt:") {
		t.Errorf("BuildPrompt() without prompt = %q", got)
	}
}
