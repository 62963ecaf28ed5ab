package evaluation

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the grading instructions followed by the essay.
func BuildPrompt(req EssayRequest) string {
	level := req.GradeLevel
	if level == "" {
		level = DefaultGradeLevel
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an experienced educator with expertise in %s level writing.\n", level)
	if req.Prompt != "" {
		fmt.Fprintf(&b, "Evaluate the following essay that responds to this prompt: %s.\n", req.Prompt)
	} else {
		b.WriteString("Evaluate the following essay.\n")
	}
	b.WriteString("Provide a comprehensive assessment including:\n")
	b.WriteString("1. An overall score out of 100\n")
	b.WriteString("2. General feedback on the essay's quality\n")
	b.WriteString("3. Three specific strengths\n")
	b.WriteString("4. Three areas for improvement\n")
	b.WriteString("5. Specific grammar and style suggestions\n")
	b.WriteString("\nESSAY:\n")
	b.WriteString(req.Text)
	return b.String()
}
