package evaluation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/smartgrade/smartgrade/core"
)

var (
	strengthPool = []string{
		"Strong thesis statement that clearly outlines the main argument",
		"Effective use of evidence to support key points",
		"Good paragraph structure with clear topic sentences",
		"Appropriate academic tone and vocabulary",
		"Thoughtful engagement with counter-arguments",
	}

	improvementPool = []string{
		"Strengthen transitions between paragraphs to improve flow",
		"Provide more specific examples to support your arguments",
		"Consider alternative perspectives to deepen analysis",
		"Clarify your conclusion to better reinforce your thesis",
		"Vary sentence structure to improve readability",
		"Add more critical analysis rather than description",
	}

	grammarPool = []GrammarFeedback{
		{
			Issue:      "Inconsistent verb tense throughout the essay",
			Suggestion: "Maintain consistent verb tense, using past tense for historical events and present tense for ongoing analysis",
		},
		{
			Issue:      "Overuse of passive voice",
			Suggestion: "Use active voice more frequently to make your writing more direct and engaging",
		},
		{
			Issue:      "Run-on sentences in several paragraphs",
			Suggestion: "Break longer sentences into smaller ones for clarity, or use appropriate punctuation like semicolons",
		},
		{
			Issue:      "Occasional subject-verb agreement errors",
			Suggestion: "Ensure that singular subjects take singular verbs and plural subjects take plural verbs",
		},
		{
			Issue:      "Comma splices connecting independent clauses",
			Suggestion: "Use conjunctions, semicolons, or periods instead of commas to join independent clauses",
		},
	}
)

const (
	feedbackExcellent = "This is an excellent essay that demonstrates strong analytical skills, clear organization, and effective use of evidence. The arguments are well-developed and the writing is sophisticated."
	feedbackGood      = "This is a good essay that shows solid understanding of the topic. The arguments are generally well-presented, though there is room for improvement in terms of depth of analysis and clarity of expression."
	feedbackFair      = "This essay demonstrates some understanding of the topic but would benefit from more focused arguments, better organization, and more thorough analysis. There are also some issues with grammar and style that need attention."

	// texts longer than this (in bytes) get lengthBonus
	longEssayLength = 1000
	lengthBonus     = 5
)

type MockConfig struct {
	Latency time.Duration
	Sleep   core.SleepFunc // optional, defaults to core.Sleep
	Rand    *rand.Rand     // optional, seeded from the clock by default
}

// MockEvaluator produces plausible random feedback from canned pools. It never fails, except on ctx cancellation.
type MockEvaluator struct {
	latency time.Duration
	sleep   core.SleepFunc

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

var _ Evaluator = (*MockEvaluator)(nil)

func NewMockEvaluator(conf MockConfig) *MockEvaluator {
	ev := &MockEvaluator{latency: conf.Latency, sleep: conf.Sleep, rnd: conf.Rand}
	if ev.sleep == nil {
		ev.sleep = core.Sleep
	}
	if ev.rnd == nil {
		ev.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return ev
}

func (ev *MockEvaluator) GradeEssay(ctx context.Context, req EssayRequest) (EssayResult, error) {
	if err := ev.sleep(ctx, ev.latency); err != nil {
		return EssayResult{}, err
	}

	ev.mu.Lock()
	defer ev.mu.Unlock()

	score := ev.rnd.Intn(30) + 70 // [70, 99]
	if len(req.Text) > longEssayLength {
		score += lengthBonus
	}
	score = ClampScore(score)

	grammar := make([]GrammarFeedback, len(grammarPool))
	copy(grammar, grammarPool)
	ev.rnd.Shuffle(len(grammar), func(i, j int) { grammar[i], grammar[j] = grammar[j], grammar[i] })

	return EssayResult{
		Score:           score,
		OverallFeedback: OverallFeedback(score),
		Strengths:       ev.pick(strengthPool, StrengthCount),
		Improvements:    ev.pick(improvementPool, ImprovementCount),
		GrammarFeedback: grammar[:GrammarCount],
	}, nil
}

// pick draws n distinct entries of pool. Callers hold ev.mu.
func (ev *MockEvaluator) pick(pool []string, n int) []string {
	items := make([]string, len(pool))
	copy(items, pool)
	ev.rnd.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	return items[:n]
}

// OverallFeedback returns the summary template for score.
func OverallFeedback(score int) string {
	switch {
	case score >= 90:
		return feedbackExcellent
	case score >= 80:
		return feedbackGood
	default:
		return feedbackFair
	}
}
