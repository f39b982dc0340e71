package types

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"kisaan/entities"
)

// MaxKBContext caps the knowledge-base notes appended to a prompt.
const MaxKBContext = 6000

// RenderPrompt asks for the plan as a bare JSON object with the field
// names RawPlan decodes.
func RenderPrompt(p *entities.FarmingProblem, kbCtx string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `As an expert agricultural advisor, create a detailed action plan for this farming problem:

Problem: %s
Crop: %s
Location: %s
Urgency: %s

Generate a JSON object with these keys:
- "title": a title for the action plan
- "description": a brief description of the problem and solution approach
- "estimatedCost": estimated total cost in USD (number)
- "expectedYield": expected yield improvement percentage (number)
- "tasks": a list of 3-5 specific tasks, in the order they should be done, each with
  "title", "description", "priority" (low|medium|high), "estimatedDuration" (minutes, integer),
  "cost" (USD, number), "supplies" (list of strings) and "instructions" (step-by-step text)

Consider the urgency level and provide tasks that are practical and achievable.
`, oneLine(p.Description), oneLine(p.CropType), oneLine(orUnknown(p.Location)), p.Urgency)

	if kb := strings.TrimSpace(kbCtx); kb != "" {
		kb = truncate(kb, MaxKBContext)
		b.WriteString("\nReference notes from the local knowledge base (use where relevant, do not copy at length):\n")
		b.WriteString(kb)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with valid JSON only, no other text.")
	return b.String()
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}
