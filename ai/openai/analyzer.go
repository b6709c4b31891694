package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxTags caps how many tags are kept from one model response.
const maxTags = 10

// Analyzer implements ai.Analyzer using OpenAI-compatible chat and vision
// APIs. Provider failures and malformed model output degrade to empty
// results: a missing tag set never fails an asset.
type Analyzer struct {
	client       llms.Model
	contentLimit int
	logger       *slog.Logger
}

// tagsResponse is the wrapper structure for the tag generation JSON response.
type tagsResponse struct {
	Tags []string `json:"tags"`
}

// imageResponse is the wrapper structure for the image analysis JSON response.
type imageResponse struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
}

// newAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(config.ChatModel),
	}
	if config.Host != "" {
		opts = append(opts, openai.WithBaseURL(config.Host))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		client:       client,
		contentLimit: config.PromptContentLimit,
		logger:       slog.Default().With("component", "openai-analyzer"),
	}, nil
}

// NewAnalyzer creates a new analyzer using the provided configuration.
//
// Returns ai.Analyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config) (ai.Analyzer, error) {
	return newAnalyzer(config)
}

// GenerateTags produces searchable tags for the given content. Any provider
// failure or malformed response yields an empty slice, never an error.
func (a *Analyzer) GenerateTags(ctx context.Context, content string, fileType core.FileType) ([]string, error) {
	contentKind := "image"
	if fileType == core.FileTypePDF {
		contentKind = "document"
	}
	prompt := buildTagsPrompt(contentKind, a.truncate(content))

	responseText, err := a.generate(ctx, prompt, true)
	if err != nil {
		a.logger.Warn("tag generation failed", "err", err)
		return []string{}, nil
	}

	var parsed tagsResponse
	raw := extractJSON(responseText)
	if raw == "" || json.Unmarshal([]byte(raw), &parsed) != nil {
		a.logger.Warn("tag generation returned unparseable output", "response", responseText)
		return []string{}, nil
	}

	return normalizeTags(parsed.Tags), nil
}

// GenerateSummary produces a short browsing summary for the given content.
// Failures yield an empty summary, never an error.
func (a *Analyzer) GenerateSummary(ctx context.Context, content string, fileType core.FileType) (string, error) {
	prompt := buildSummaryPrompt(a.truncate(content))

	responseText, err := a.generate(ctx, prompt, false)
	if err != nil {
		a.logger.Warn("summary generation failed", "err", err)
		return "", nil
	}

	return strings.TrimSpace(responseText), nil
}

// AnalyzeImage runs one combined vision pass producing a description, tags,
// and a summary together. Failures yield an empty analysis, never an error.
func (a *Analyzer) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*ai.ImageAnalysis, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, data),
				llms.TextPart(imageAnalysisPrompt),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0), llms.WithMaxTokens(1024))
	if err != nil {
		a.logger.Warn("image analysis failed", "err", err)
		return &ai.ImageAnalysis{}, nil
	}
	if len(response.Choices) < 1 {
		a.logger.Debug("no choices returned from model")
		return &ai.ImageAnalysis{}, nil
	}

	var parsed imageResponse
	raw := extractJSON(response.Choices[0].Content)
	if raw == "" || json.Unmarshal([]byte(raw), &parsed) != nil {
		a.logger.Warn("image analysis returned unparseable output",
			"response", response.Choices[0].Content)
		return &ai.ImageAnalysis{}, nil
	}

	return &ai.ImageAnalysis{
		Description: strings.TrimSpace(parsed.Description),
		Tags:        normalizeTags(parsed.Tags),
		Summary:     strings.TrimSpace(parsed.Summary),
	}, nil
}

// generate runs a single-prompt completion and returns the raw text of the
// first choice.
func (a *Analyzer) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	opts := []llms.CallOption{llms.WithTemperature(0.0), llms.WithMaxTokens(256)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	response, err := a.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", nil
	}
	return response.Choices[0].Content, nil
}

func (a *Analyzer) truncate(content string) string {
	if a.contentLimit > 0 && len(content) > a.contentLimit {
		return content[:a.contentLimit]
	}
	return content
}

// normalizeTags lowercases, trims, and dedupes model-produced tags, dropping
// empties and capping the result.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		cleaned := strings.ToLower(strings.TrimSpace(tag))
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		result = append(result, cleaned)
		if len(result) == maxTags {
			break
		}
	}
	return result
}
