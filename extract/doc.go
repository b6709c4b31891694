// Package extract pulls plain text out of asset files for downstream
// tagging, summarization, and embedding.
package extract
