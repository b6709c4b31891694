package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/storage"
)

func newTestRepo(t *testing.T) storage.AssetRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAssetBasics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename:         "summer-campaign-hero.jpg",
		OriginalFilename: "IMG_2041.jpg",
		FileType:         core.FileTypeImage,
		MimeType:         "image/jpeg",
		FileSize:         1024,
		StoragePath:      "assets/x/original.jpg",
		Status:           core.StatusPending,
	}

	added, err := repo.AddAssets(ctx, asset)
	if err != nil {
		t.Fatalf("Failed to add asset: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 asset, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	retrieved, err := repo.GetAsset(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get asset: %v", err)
	}
	if retrieved.Filename != "summer-campaign-hero.jpg" {
		t.Fatalf("Expected filename to survive round trip, got '%s'", retrieved.Filename)
	}
	if retrieved.Status != core.StatusPending {
		t.Fatalf("Expected pending status, got %v", retrieved.Status)
	}
}

func TestGetAssetNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetAsset(context.Background(), 9999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAssetFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "report.pdf",
		FileType: core.FileTypePDF,
		Status:   core.StatusPending,
	}
	if _, err := repo.AddAssets(ctx, asset); err != nil {
		t.Fatalf("Failed to add asset: %v", err)
	}

	summary := "Quarterly results one-pager."
	tags := []string{"Finance", "Q3"}
	status := core.StatusComplete
	updated, err := repo.UpdateAssetFields(ctx, asset.Id, &core.AssetUpdate{
		AISummary: &summary,
		AITags:    &tags,
		Status:    &status,
	})
	if err != nil {
		t.Fatalf("Failed to update fields: %v", err)
	}
	if updated.AISummary != summary {
		t.Fatalf("Expected summary to be updated, got '%s'", updated.AISummary)
	}
	if updated.Status != core.StatusComplete {
		t.Fatalf("Expected complete status, got %v", updated.Status)
	}
	if updated.Filename != "report.pdf" {
		t.Fatal("Unrelated field changed during partial update")
	}

	// Tag index should reflect the new AI tags, case-insensitively
	found, err := repo.FindByTag(ctx, "finance", 10)
	if err != nil {
		t.Fatalf("Failed to find by tag: %v", err)
	}
	if len(found) != 1 || found[0].Id != asset.Id {
		t.Fatalf("Expected asset to be findable by new tag, got %d results", len(found))
	}
}

func TestUpdateAssetFieldsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	name := "x"
	_, err := repo.UpdateAssetFields(context.Background(), 777, &core.AssetUpdate{Filename: &name})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAssetsCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{
		Filename: "banner.png",
		FileType: core.FileTypeImage,
		UserTags: []string{"launch"},
		Status:   core.StatusComplete,
	}
	if _, err := repo.AddAssets(ctx, asset); err != nil {
		t.Fatalf("Failed to add asset: %v", err)
	}
	if _, err := repo.RecordDownload(ctx, asset.Id, "maya"); err != nil {
		t.Fatalf("Failed to record download: %v", err)
	}

	if err := repo.DeleteAssets(ctx, asset.Id); err != nil {
		t.Fatalf("Failed to delete asset: %v", err)
	}

	if _, err := repo.GetAsset(ctx, asset.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	found, err := repo.FindByTag(ctx, "launch", 10)
	if err != nil {
		t.Fatalf("Failed to query tag index: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("Expected tag index entry to be removed, got %d results", len(found))
	}

	downloads, err := repo.GetDownloads(ctx, asset.Id)
	if err != nil {
		t.Fatalf("Failed to query downloads: %v", err)
	}
	if len(downloads) != 0 {
		t.Fatalf("Expected download history to be removed, got %d entries", len(downloads))
	}
}

func TestGetRecentAssetsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	assets := []*core.Asset{
		{Filename: "old.png", FileType: core.FileTypeImage, CreatedAt: now.Add(-2 * time.Hour)},
		{Filename: "newer.png", FileType: core.FileTypeImage, CreatedAt: now.Add(-1 * time.Hour)},
		{Filename: "newest.png", FileType: core.FileTypeImage, CreatedAt: now},
	}
	if _, err := repo.AddAssets(ctx, assets...); err != nil {
		t.Fatalf("Failed to add assets: %v", err)
	}

	recent, err := repo.GetRecentAssets(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to get recent assets: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 assets, got %d", len(recent))
	}
	if recent[0].Filename != "newest.png" || recent[1].Filename != "newer.png" {
		t.Fatalf("Expected newest-first order, got %s, %s", recent[0].Filename, recent[1].Filename)
	}
}

func TestFindByFilenameSubstring(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assets := []*core.Asset{
		{Filename: "summer-campaign-hero.jpg", FileType: core.FileTypeImage},
		{Filename: "Winter-Campaign-banner.png", FileType: core.FileTypeImage},
		{Filename: "logo.svg", FileType: core.FileTypeImage},
	}
	if _, err := repo.AddAssets(ctx, assets...); err != nil {
		t.Fatalf("Failed to add assets: %v", err)
	}

	found, err := repo.FindByFilenameSubstring(ctx, "CAMPAIGN", 10)
	if err != nil {
		t.Fatalf("Failed to search filenames: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(found))
	}

	found, err = repo.FindByFilenameSubstring(ctx, "campaign", 1)
	if err != nil {
		t.Fatalf("Failed to search filenames: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Expected limit to apply, got %d", len(found))
	}
}

func TestFindByTagWholeToken(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assets := []*core.Asset{
		{Filename: "a.png", FileType: core.FileTypeImage, AITags: []string{"running"}},
		{Filename: "b.png", FileType: core.FileTypeImage, UserTags: []string{"run"}},
	}
	if _, err := repo.AddAssets(ctx, assets...); err != nil {
		t.Fatalf("Failed to add assets: %v", err)
	}

	found, err := repo.FindByTag(ctx, "run", 10)
	if err != nil {
		t.Fatalf("Failed to find by tag: %v", err)
	}
	if len(found) != 1 || found[0].Filename != "b.png" {
		t.Fatalf("Expected exact token match only, got %d results", len(found))
	}
}

func TestFindSimilar(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assets := []*core.Asset{
		{Filename: "close.png", FileType: core.FileTypeImage, Vector: []float32{1, 0, 0}},
		{Filename: "far.png", FileType: core.FileTypeImage, Vector: []float32{0, 1, 0}},
		{Filename: "novector.png", FileType: core.FileTypeImage},
	}
	if _, err := repo.AddAssets(ctx, assets...); err != nil {
		t.Fatalf("Failed to add assets: %v", err)
	}

	matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match above threshold, got %d", len(matches))
	}
	if matches[0].Asset.Filename != "close.png" {
		t.Fatalf("Expected close.png, got %s", matches[0].Asset.Filename)
	}
	if matches[0].Similarity < 0.99 {
		t.Fatalf("Expected similarity near 1.0, got %f", matches[0].Similarity)
	}
}

func TestFindSimilarThresholdInclusive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// 45 degrees from the query vector: similarity = sqrt(2)/2
	asset := &core.Asset{Filename: "diag.png", FileType: core.FileTypeImage, Vector: []float32{1, 1, 0}}
	if _, err := repo.AddAssets(ctx, asset); err != nil {
		t.Fatalf("Failed to add asset: %v", err)
	}

	matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.7071, 10)
	if err != nil {
		t.Fatalf("Failed to find similar: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected match at threshold to be included, got %d", len(matches))
	}
}

func TestRecordDownload(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset := &core.Asset{Filename: "deck.pdf", FileType: core.FileTypePDF}
	if _, err := repo.AddAssets(ctx, asset); err != nil {
		t.Fatalf("Failed to add asset: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := repo.RecordDownload(ctx, asset.Id, "maya"); err != nil {
			t.Fatalf("Failed to record download: %v", err)
		}
	}

	retrieved, err := repo.GetAsset(ctx, asset.Id)
	if err != nil {
		t.Fatalf("Failed to get asset: %v", err)
	}
	if retrieved.DownloadCount != 3 {
		t.Fatalf("Expected download count 3, got %d", retrieved.DownloadCount)
	}

	downloads, err := repo.GetDownloads(ctx, asset.Id)
	if err != nil {
		t.Fatalf("Failed to get downloads: %v", err)
	}
	if len(downloads) != 3 {
		t.Fatalf("Expected 3 download events, got %d", len(downloads))
	}
	if downloads[0].DownloadedBy != "maya" {
		t.Fatalf("Expected downloader to be recorded, got '%s'", downloads[0].DownloadedBy)
	}
}

func TestScanAssets(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		asset := &core.Asset{Filename: "a.png", FileType: core.FileTypeImage}
		if _, err := repo.AddAssets(ctx, asset); err != nil {
			t.Fatalf("Failed to add asset: %v", err)
		}
	}

	var lastID core.ID
	count := 0
	err := repo.ScanAssets(ctx, func(asset *core.Asset) error {
		if asset.Id <= lastID {
			t.Fatalf("Expected ID order, got %d after %d", asset.Id, lastID)
		}
		lastID = asset.Id
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to scan assets: %v", err)
	}
	if count != 5 {
		t.Fatalf("Expected 5 assets scanned, got %d", count)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Fatalf("Expected identical vectors to score 1.0, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("Expected orthogonal vectors to score 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 0}); got != 0 {
		t.Fatalf("Expected zero vector to score 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1}); got != 0 {
		t.Fatalf("Expected mismatched lengths to score 0, got %f", got)
	}
}
