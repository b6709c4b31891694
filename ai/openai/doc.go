// Package openai implements the ai interfaces against OpenAI-compatible
// APIs via langchaingo. It works with OpenAI itself as well as local
// services such as Ollama or LM Studio that expose the same surface.
package openai
