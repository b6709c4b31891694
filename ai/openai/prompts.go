package openai

import "fmt"

const tagsPromptTemplate = `Analyze this %s content and generate relevant tags for a marketing asset library.

Rules:
- Generate 3-7 tags
- Tags should be lowercase, single words or short phrases
- Include: subject matter, style, mood, colors (if distinctive), use case
- Be specific: "woman running" not just "person"
- Think about what someone might search for

Content: %s

Respond in JSON only:
{ "tags": ["tag1", "tag2", ...] }`

const summaryPromptTemplate = `Write a 1-2 sentence summary of this marketing asset. Be specific and descriptive.

Examples:
- "Product mockup showing an app dashboard on an iPhone, dark mode, with health metrics visible."
- "Lifestyle photo of a man in his 30s checking his smartwatch while jogging in an urban park, morning light."
- "PDF one-pager explaining the benefits of a supplement, includes dosage chart."

Content: %s

Respond with just the summary, no JSON.`

const imageAnalysisPrompt = `Analyze this marketing asset image and provide:

1. A detailed description of what's in the image (2-4 sentences)
2. 3-7 relevant tags for a marketing asset library (lowercase, specific, searchable)
3. A 1-2 sentence TLDR summary suitable for quick browsing

Respond in this exact JSON format:
{
  "description": "...",
  "tags": ["tag1", "tag2", ...],
  "summary": "..."
}`

// buildTagsPrompt fills the tag prompt with the content kind and the
// (already truncated) content.
func buildTagsPrompt(contentKind, content string) string {
	return fmt.Sprintf(tagsPromptTemplate, contentKind, content)
}

// buildSummaryPrompt fills the summary prompt with the (already truncated)
// content.
func buildSummaryPrompt(content string) string {
	return fmt.Sprintf(summaryPromptTemplate, content)
}
