package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Asset and download IDs come from database sequences; content IDs are
// generated with IDFromBytes.
type ID uint64

// IDFromBytes generates a deterministic ID from raw content using BLAKE2b
// hashing. Identical content produces identical IDs, which makes it suitable
// for content-addressed blob paths.
func IDFromBytes(data []byte) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FileType identifies the kind of file an asset holds.
type FileType int

const (
	// FileTypeImage represents a raster or vector image.
	FileTypeImage FileType = iota + 1
	// FileTypePDF represents a PDF document.
	FileTypePDF
)

// String returns the lowercase name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeImage:
		return "image"
	case FileTypePDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// ProcessingStatus marks where an asset is in the enrichment lifecycle.
type ProcessingStatus int

const (
	// StatusPending is set at upload time and at retry.
	StatusPending ProcessingStatus = iota + 1
	// StatusComplete means a processing run finished. Enrichment fields may
	// still be empty if the AI provider was unavailable (soft fail).
	StatusComplete
	// StatusFailed means the last processing run errored. Terminal until an
	// explicit retry resets the asset to pending.
	StatusFailed
)

// String returns the lowercase name of the status.
func (s ProcessingStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Asset is the unit of catalog content: a stored image or PDF plus its
// metadata and AI-derived annotations.
type Asset struct {
	Id               ID
	Filename         string   // Display name, user-editable, validated
	OriginalFilename string   // As uploaded, immutable
	FileType         FileType
	MimeType         string
	FileSize         int64
	StoragePath      string   // Blob store location of the original bytes
	ThumbnailPath    string   // Blob store location of the thumbnail, empty if none
	AISummary        string   // Machine-generated, empty until processed
	AITags           []string // Machine-generated, never user-mutable
	ExtractedText    string   // Truncated text representation, empty until processed
	UserTags         []string // User-editable
	Status           ProcessingStatus
	DownloadCount    int64     // Monotonic counter
	Vector           []float32 // Embedding for semantic search, nil until processed
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Download records a single download of an asset.
type Download struct {
	Id           ID
	AssetId      ID
	DownloadedBy string
	DownloadedAt time.Time
}

// AssetUpdate describes a partial update to an asset. Nil fields are left
// untouched; the repository applies all set fields in a single transaction.
type AssetUpdate struct {
	Filename      *string
	UserTags      *[]string
	AITags        *[]string
	AISummary     *string
	ExtractedText *string
	Vector        *[]float32
	ThumbnailPath *string
	Status        *ProcessingStatus
}

// MatchType identifies the source that produced a search candidate.
type MatchType int

const (
	// MatchKeyword marks a lexical match on filename or tags.
	MatchKeyword MatchType = iota + 1
	// MatchSemantic marks a vector-similarity match.
	MatchSemantic
)

// String returns the lowercase name of the match type.
func (m MatchType) String() string {
	switch m {
	case MatchKeyword:
		return "keyword"
	case MatchSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// SimilarityMatch is an asset returned by vector similarity search together
// with its cosine similarity to the query embedding.
type SimilarityMatch struct {
	Asset      *Asset
	Similarity float32
}

// RankedAsset is a scored entry in a fused search result list. Candidates
// found by both matchers carry the keyword match type with the semantic
// similarity still attached.
type RankedAsset struct {
	Asset      *Asset
	Score      int
	Match      MatchType
	Similarity float32 // Zero for keyword-only matches
}

// SearchResponse is the result of one search query.
type SearchResponse struct {
	Assets []*RankedAsset
	Total  int
	Query  string
}
