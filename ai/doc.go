// Package ai defines the AI capability interfaces consumed by the asset
// processing pipeline and the search subsystem: text embedding and content
// analysis (tags, summaries, image descriptions).
//
// Implementations live in subpackages: ai/openai talks to OpenAI-compatible
// services, ai/mock provides injectable test doubles. Disabled() returns a
// provider with every capability stubbed to an empty result, used when no
// credential is configured. The absence of a provider is a degraded mode,
// never an error.
package ai
