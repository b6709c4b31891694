package processing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/extract"
	"github.com/brightpool/assetvault/storage"
)

// processor runs the enrichment steps for a single asset: extract text,
// generate tags and a summary, embed, derive a thumbnail, persist.
type processor struct {
	assets      storage.AssetRepository
	blobs       storage.BlobStore
	extractor   extract.Extractor
	embedder    ai.Embedder
	analyzer    ai.Analyzer
	thumbnailer Thumbnailer
	logger      *slog.Logger
}

// enrichment holds the intermediate results of one processing run before
// they are persisted in a single partial update.
type enrichment struct {
	tags          []string
	summary       string
	extractedText string
	vector        []float32
	thumbnailPath string
}

// process runs the pipeline for one asset. A returned error means the run
// failed and the asset's status has been set to failed. Enrichment steps
// degrade individually: a missing tag set or embedding never fails the run.
func (p *processor) process(ctx context.Context, id core.ID) error {
	asset, err := p.assets.GetAsset(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load asset: %w", err)
	}

	result, err := p.enrich(ctx, asset)
	if err != nil {
		p.fail(ctx, id, err)
		return err
	}

	if err := p.persist(ctx, id, result); err != nil {
		p.fail(ctx, id, err)
		return err
	}

	p.logger.Info("asset processed",
		"asset", id,
		"tags", len(result.tags),
		"embedded", len(result.vector) > 0)
	return nil
}

func (p *processor) enrich(ctx context.Context, asset *core.Asset) (*enrichment, error) {
	data, err := p.blobs.Download(ctx, asset.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download asset blob: %w", err)
	}

	text, err := p.extractor.Extract(ctx, data, asset.FileType)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	result := &enrichment{extractedText: text}

	switch asset.FileType {
	case core.FileTypeImage:
		p.enrichImage(ctx, asset, data, result)
	default:
		p.enrichDocument(ctx, asset, result)
	}

	// Combined text blob for the embedding input
	blob := combinedText(asset.Filename, result.summary, result.extractedText, result.tags)
	vector, err := p.embedder.EmbedText(ctx, blob)
	if err != nil {
		p.logger.Warn("embedding degraded", "asset", asset.Id, "err", err)
	} else {
		result.vector = vector
	}

	thumbPath, err := p.thumbnailer.Thumbnail(ctx, asset, data)
	if err != nil {
		p.logger.Warn("thumbnail generation degraded", "asset", asset.Id, "err", err)
	} else {
		result.thumbnailPath = thumbPath
	}

	return result, nil
}

// enrichImage runs one combined vision pass. The analyzer degrades to an
// empty analysis on provider failure.
func (p *processor) enrichImage(ctx context.Context, asset *core.Asset, data []byte, result *enrichment) {
	analysis, err := p.analyzer.AnalyzeImage(ctx, data, asset.MimeType)
	if err != nil || analysis == nil {
		p.logger.Warn("image analysis degraded", "asset", asset.Id, "err", err)
		return
	}
	result.tags = analysis.Tags
	result.summary = analysis.Summary
	if result.extractedText == "" {
		result.extractedText = analysis.Description
	}
}

// enrichDocument generates tags and a summary from the extracted text.
// A document with no recoverable text gets no analyzer calls; its embedding
// still covers the filename via the combined blob.
func (p *processor) enrichDocument(ctx context.Context, asset *core.Asset, result *enrichment) {
	content := result.extractedText
	if strings.TrimSpace(content) == "" {
		return
	}

	tags, err := p.analyzer.GenerateTags(ctx, content, asset.FileType)
	if err != nil {
		p.logger.Warn("tag generation degraded", "asset", asset.Id, "err", err)
	} else {
		result.tags = tags
	}

	summary, err := p.analyzer.GenerateSummary(ctx, content, asset.FileType)
	if err != nil {
		p.logger.Warn("summary generation degraded", "asset", asset.Id, "err", err)
	} else {
		result.summary = summary
	}
}

func (p *processor) persist(ctx context.Context, id core.ID, result *enrichment) error {
	status := core.StatusComplete
	update := &core.AssetUpdate{
		AITags:        &result.tags,
		AISummary:     &result.summary,
		ExtractedText: &result.extractedText,
		Status:        &status,
	}
	if len(result.vector) > 0 {
		update.Vector = &result.vector
	}
	if result.thumbnailPath != "" {
		update.ThumbnailPath = &result.thumbnailPath
	}

	if _, err := p.assets.UpdateAssetFields(ctx, id, update); err != nil {
		return fmt.Errorf("failed to persist enrichment: %w", err)
	}
	return nil
}

// fail marks the asset failed. Other fields written before the failure are
// left as they are.
func (p *processor) fail(ctx context.Context, id core.ID, cause error) {
	p.logger.Error("asset processing failed", "asset", id, "err", cause)

	status := core.StatusFailed
	if _, err := p.assets.UpdateAssetFields(ctx, id, &core.AssetUpdate{Status: &status}); err != nil {
		p.logger.Error("failed to mark asset failed", "asset", id, "err", err)
	}
}

// combinedText joins the searchable fields of an asset into one embedding
// input, skipping empty parts.
func combinedText(filename, summary, extractedText string, tags []string) string {
	parts := make([]string, 0, 3+len(tags))
	for _, part := range []string{filename, summary, extractedText} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) != "" {
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, " ")
}
