package generator

import (
	"context"
	"sync"
)

// DefaultMockResponse is a fixed plan used by the mock provider for offline runs.
const DefaultMockResponse = `**MEAL PLAN FOR TODAY**

**BREAKFAST (400 kcal target):**
• Oatmeal, 1 cup cooked (150 kcal)
• Scrambled Eggs, 2 eggs (140 kcal)
• Orange Juice, 8 oz (110 kcal)
Subtotal: 400 kcal

**LUNCH (700 kcal target):**
• Grilled Chicken Salad (350 kcal)
• Quinoa Bowl (400 kcal)
Subtotal: 750 kcal

**DINNER (700 kcal target):**
• Grilled Salmon (350 kcal)
• Vegetable Curry (380 kcal)
Subtotal: 730 kcal

**SNACKS (200 kcal target):**
• Almonds, 1 oz (160 kcal)
Subtotal: 160 kcal

**NOTES:**
Balanced choices close to each target.`

// Mock returns canned responses. Safe for concurrent use.
type Mock struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

// NewMock returns a generator that cycles through responses.
func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses}
}

// NewFailingMock returns a generator that always fails with err.
func NewFailingMock(err error) *Mock {
	return &Mock{err: err}
}

// Generate records prompt and returns the next canned response.
func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	return m.responses[(len(m.prompts)-1)%len(m.responses)], nil
}

// Prompts returns every prompt received so far.
func (m *Mock) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
