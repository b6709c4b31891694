// Package reindex provides functionality for reembedding existing assets
// with new or updated embedding models.
//
// This package supports batch processing of assets, progress tracking,
// retry logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reindex
