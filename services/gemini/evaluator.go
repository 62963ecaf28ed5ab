// Package gemini grades essays with Google's Gemini models.
package gemini

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/evaluation"
)

const (
	DefaultModel = "gemini-pro"
	maxAttempts  = 3
)

var ErrNoAPIKey = errors.New("gemini API key is empty")

const replySchema = `Reply with JSON only, no comments, matching:
{
  "score": <integer 0-100>,
  "overall_feedback": "<string>",
  "strengths": ["<string>", "<string>", "<string>"],
  "improvements": ["<string>", "<string>", "<string>"],
  "grammar_feedback": [{"issue": "<string>", "suggestion": "<string>"}, {"issue": "<string>", "suggestion": "<string>"}]
}`

// Evaluator is an evaluation.Evaluator backed by the Gemini API.
type Evaluator struct {
	client *genai.Client
	model  string
	logger core.Logger
	sleep  core.SleepFunc // between retries
}

var _ evaluation.Evaluator = (*Evaluator)(nil)

func NewEvaluator(ctx context.Context, conf core.GeminiConfig, logger core.Logger) (*Evaluator, error) {
	apiKey := strings.TrimSpace(conf.APIKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "creating gemini client")
	}

	model := strings.TrimSpace(conf.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Evaluator{client: cl, model: model, logger: logger, sleep: core.Sleep}, nil
}

func (ev *Evaluator) Close() error {
	return ev.client.Close()
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }

func (ev *Evaluator) GradeEssay(ctx context.Context, req evaluation.EssayRequest) (evaluation.EssayResult, error) {
	m := ev.client.GenerativeModel(ev.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0.7),
		TopK:             ptrInt32(40),
		TopP:             ptrFloat32(0.95),
		MaxOutputTokens:  ptrInt32(1024),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(replySchema)}}

	prompt := genai.Text(evaluation.BuildPrompt(req))
	resp, err := ev.generate(ctx, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return m.GenerateContent(ctx, prompt)
	})
	if err != nil {
		return evaluation.EssayResult{}, err
	}

	txt := firstText(resp)
	if txt == "" {
		return evaluation.EssayResult{}, errors.Wrap(evaluation.ErrMalformedFeedback, "empty response")
	}
	return decodeFeedback(txt)
}

type generateFunc func(ctx context.Context) (*genai.GenerateContentResponse, error)

// generate calls gen up to maxAttempts times, backing off between transient failures.
func (ev *Evaluator) generate(ctx context.Context, gen generateFunc) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := gen(ctx)
		if err == nil {
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
		ev.logger.Warn("gemini: generate content", err, map[string]interface{}{"attempt": attempt})
		if !transient(err) || attempt == maxAttempts {
			break
		}
		if err = ev.sleep(ctx, time.Duration(attempt)*300*time.Millisecond); err != nil {
			return nil, err
		}
	}
	return nil, errors.Wrap(lastErr, "gemini: generate content")
}

// transient reports whether a failed call may succeed when retried.
func transient(err error) bool {
	switch status.Code(errors.Cause(err)) {
	case codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated,
		codes.NotFound, codes.FailedPrecondition, codes.Unimplemented:
		return false
	}
	return true
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeFeedback(txt string) (evaluation.EssayResult, error) {
	var res evaluation.EssayResult
	if err := json.Unmarshal([]byte(stripCodeFences(txt)), &res); err != nil {
		return evaluation.EssayResult{}, errors.Wrap(evaluation.ErrMalformedFeedback, err.Error())
	}
	return res.Normalize()
}
