// Package presentation drafts slide outlines for a topic.
package presentation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core"
)

// Presentation kinds
const (
	KindEducational = "educational"
	KindBusiness    = "business"
	KindScientific  = "scientific"
)

// Themes
const (
	ThemeBlue   = "blue"
	ThemeGreen  = "green"
	ThemeAmber  = "amber"
	ThemePurple = "purple"
	ThemeRose   = "rose"
)

const DefaultSlideCount = 5

var (
	SlideCounts = []int{3, 5, 7, 10}
	Kinds       = []string{KindEducational, KindBusiness, KindScientific}
	Themes      = []string{ThemeBlue, ThemeGreen, ThemeAmber, ThemePurple, ThemeRose}

	ErrTopicRequired     = errors.New("please enter a topic")
	ErrInvalidSlideCount = errors.New("slide count must be one of 3, 5, 7 or 10")
	ErrInvalidKind       = errors.New("kind must be one of educational, business or scientific")
	ErrInvalidTheme      = errors.New("theme must be one of blue, green, amber, purple or rose")
)

type (
	Request struct {
		Topic      string `json:"topic" validate:"notblank"`
		SlideCount int    `json:"slide_count"`
		Kind       string `json:"kind"`
		Theme      string `json:"theme"`
	}

	Slide struct {
		ID      int      `json:"id"`
		Title   string   `json:"title"`
		Content []string `json:"content"`
		Notes   string   `json:"notes,omitempty"`
	}

	Deck struct {
		Topic  string  `json:"topic"`
		Kind   string  `json:"kind"`
		Theme  string  `json:"theme"`
		Slides []Slide `json:"slides"`
	}
)

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Prepare checks req and fills in its defaults.
func Prepare(req Request) (Request, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return Request{}, core.NewFieldError("topic", ErrTopicRequired)
	}

	if req.SlideCount == 0 {
		req.SlideCount = DefaultSlideCount
	}
	valid := false
	for _, n := range SlideCounts {
		valid = valid || n == req.SlideCount
	}
	if !valid {
		return Request{}, core.NewFieldError("slide_count", ErrInvalidSlideCount)
	}

	if req.Kind == "" {
		req.Kind = KindEducational
	}
	if !contains(Kinds, req.Kind) {
		return Request{}, core.NewFieldError("kind", ErrInvalidKind)
	}
	if req.Theme == "" {
		req.Theme = ThemeBlue
	}
	if !contains(Themes, req.Theme) {
		return Request{}, core.NewFieldError("theme", ErrInvalidTheme)
	}
	return req, nil
}

type Config struct {
	Latency time.Duration
	Sleep   core.SleepFunc   // optional, defaults to core.Sleep
	Now     func() time.Time // optional, defaults to time.Now
}

// Generator builds canned outlines after a simulated delay.
type Generator struct {
	latency time.Duration
	sleep   core.SleepFunc
	now     func() time.Time
}

func NewGenerator(conf Config) *Generator {
	g := &Generator{latency: conf.Latency, sleep: conf.Sleep, now: conf.Now}
	if g.sleep == nil {
		g.sleep = core.Sleep
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Generate returns a deck of exactly req.SlideCount slides: a title slide, body slides and a conclusion.
func (g *Generator) Generate(ctx context.Context, req Request) (Deck, error) {
	req, err := Prepare(req)
	if err != nil {
		return Deck{}, err
	}
	if err = g.sleep(ctx, g.latency); err != nil {
		return Deck{}, err
	}

	slides := make([]Slide, 0, req.SlideCount)
	slides = append(slides, Slide{
		Title: req.Topic,
		Content: []string{
			"An educational presentation",
			"Created using SmartGrade AI Assistant - " + g.now().Format("1/2/2006"),
		},
	})
	slides = append(slides, bodySlides(req.Topic, req.SlideCount-2)...)
	slides = append(slides, Slide{
		Title: "Conclusion",
		Content: []string{
			"Summary of key points about " + req.Topic,
			"Questions and discussion",
			"References and further reading",
		},
	})

	for i := range slides {
		slides[i].ID = i + 1
	}
	return Deck{Topic: req.Topic, Kind: req.Kind, Theme: req.Theme, Slides: slides}, nil
}

// bodySlides returns n slides. Photosynthesis topics get the canned ones first.
func bodySlides(topic string, n int) []Slide {
	var slides []Slide
	if strings.Contains(strings.ToLower(topic), "photosynthesis") {
		slides = append(slides, photosynthesisSlides...)
	}
	if len(slides) >= n {
		return append([]Slide(nil), slides[:n]...)
	}

	for aspect := 1; len(slides) < n; aspect++ {
		slides = append(slides, Slide{
			Title: fmt.Sprintf("Key Aspect %d of %s", aspect, topic),
			Content: []string{
				"Important point #1 about " + topic,
				"Critical concept related to " + topic,
				"Key insight regarding " + topic,
				"Application of " + topic + " in real-world contexts",
			},
		})
	}
	return slides
}

var photosynthesisSlides = []Slide{
	{
		Title: "What is Photosynthesis?",
		Content: []string{
			"The process by which green plants and some other organisms use sunlight to synthesize foods with carbon dioxide and water",
			"Converts light energy into chemical energy",
			"Essential for all aerobic life on Earth",
		},
	},
	{
		Title: "The Photosynthesis Equation",
		Content: []string{
			"6CO₂ + 6H₂O + Light Energy → C₆H₁₂O₆ + 6O₂",
			"Carbon dioxide + water + light energy → glucose + oxygen",
			"Occurs in chloroplasts containing the pigment chlorophyll",
		},
	},
	{
		Title: "Light-Dependent Reactions",
		Content: []string{
			"Take place in thylakoid membranes",
			"Convert light energy to chemical energy (ATP and NADPH)",
			"Release oxygen as a byproduct",
		},
	},
	{
		Title: "Light-Independent Reactions (Calvin Cycle)",
		Content: []string{
			"Takes place in the stroma of chloroplasts",
			"Uses ATP and NADPH from light-dependent reactions",
			"Converts CO₂ into glucose and other carbohydrates",
		},
	},
}
