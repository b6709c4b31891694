package ai

// ImageAnalysis is the result of one combined visual analysis pass over an
// image asset. All three outputs come from the same pass.
type ImageAnalysis struct {
	// Description is a free-text description of the image, 2-4 sentences.
	// It becomes the asset's extracted text.
	Description string

	// Tags are 3-7 lowercase, specific, searchable tags.
	Tags []string

	// Summary is a 1-2 sentence TLDR suitable for quick browsing.
	// Empty if the model produced none.
	Summary string
}
