package mock

import (
	"context"
	"strings"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/core"
)

// MockAnalyzer is a test double for ai.Analyzer.
// It allows custom behavior injection via function fields.
type MockAnalyzer struct {
	// GenerateTagsFunc is called by GenerateTags if set.
	// If nil, uses default simple word extraction.
	GenerateTagsFunc func(ctx context.Context, content string, fileType core.FileType) ([]string, error)

	// GenerateSummaryFunc is called by GenerateSummary if set.
	// If nil, uses default truncated-content behavior.
	GenerateSummaryFunc func(ctx context.Context, content string, fileType core.FileType) (string, error)

	// AnalyzeImageFunc is called by AnalyzeImage if set.
	// If nil, returns a fixed analysis.
	AnalyzeImageFunc func(ctx context.Context, data []byte, mimeType string) (*ai.ImageAnalysis, error)

	callCount int
}

// NewMockAnalyzer creates a mock analyzer with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnalyzer().
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// GenerateTags extracts simple mock tags from content.
// Default behavior: the first few lowercased words of the content.
func (m *MockAnalyzer) GenerateTags(ctx context.Context, content string, fileType core.FileType) ([]string, error) {
	m.callCount++

	if m.GenerateTagsFunc != nil {
		return m.GenerateTagsFunc(ctx, content, fileType)
	}

	words := strings.Fields(strings.ToLower(content))
	if len(words) == 0 {
		return []string{}, nil
	}

	tags := make([]string, 0, 5)
	seen := make(map[string]bool)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		tags = append(tags, word)
		if len(tags) == 5 {
			break
		}
	}

	return tags, nil
}

// GenerateSummary returns a short prefix of the content as the summary.
func (m *MockAnalyzer) GenerateSummary(ctx context.Context, content string, fileType core.FileType) (string, error) {
	m.callCount++

	if m.GenerateSummaryFunc != nil {
		return m.GenerateSummaryFunc(ctx, content, fileType)
	}

	content = strings.TrimSpace(content)
	if len(content) > 80 {
		content = content[:80]
	}
	return content, nil
}

// AnalyzeImage returns a fixed analysis unless custom behavior is injected.
func (m *MockAnalyzer) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*ai.ImageAnalysis, error) {
	m.callCount++

	if m.AnalyzeImageFunc != nil {
		return m.AnalyzeImageFunc(ctx, data, mimeType)
	}

	return &ai.ImageAnalysis{
		Description: "mock image description",
		Tags:        []string{"mock", "image"},
		Summary:     "mock image summary",
	}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockAnalyzer) Reset() {
	m.callCount = 0
	m.GenerateTagsFunc = nil
	m.GenerateSummaryFunc = nil
	m.AnalyzeImageFunc = nil
}
