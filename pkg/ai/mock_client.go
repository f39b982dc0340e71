// pkg/ai/mock_client.go

package ai

import (
	"context"
	"fmt"
	"regexp"
)

type mockClient struct{}

// NewMock returns a client that answers every prompt with a fixed
// two-task plan. Used when no LLM endpoint is configured.
func NewMock() Client { return &mockClient{} }

var cropLine = regexp.MustCompile(`(?m)^Crop:\s*(.+)$`)

func (m *mockClient) GenerateText(ctx context.Context, prompt, apiKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	crop := "your crop"
	if mm := cropLine.FindStringSubmatch(prompt); len(mm) == 2 {
		crop = mm[1]
	}
	return fmt.Sprintf(`{
  "title": "Recovery plan for %[1]s",
  "description": "Inspect the field, then treat the affected area.",
  "estimatedCost": 40,
  "expectedYield": 12,
  "tasks": [
    {"title": "Scout the field", "description": "Walk the rows and note affected %[1]s plants", "priority": "high", "estimatedDuration": 45, "cost": 0, "supplies": ["notebook"], "instructions": "Check five spots per plot"},
    {"title": "Apply treatment", "description": "Treat affected patches", "priority": "medium", "estimatedDuration": 90, "cost": 40, "supplies": ["sprayer"], "instructions": "Spray early morning"}
  ]
}`, crop), nil
}
