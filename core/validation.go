// Copyright 2025 Brightpool Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"regexp"
	"strings"
)

// FilenameMaxLength is the maximum allowed filename length, extension included.
const FilenameMaxLength = 255

// filenamePattern is the safety predicate applied to the base name
// (extension excluded).
var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9-_. ]+$`)

// allowedMimeTypes maps accepted MIME types to their file type.
var allowedMimeTypes = map[string]FileType{
	"image/jpeg":      FileTypeImage,
	"image/png":       FileTypeImage,
	"image/gif":       FileTypeImage,
	"image/webp":      FileTypeImage,
	"image/svg+xml":   FileTypeImage,
	"application/pdf": FileTypePDF,
}

// FileTypeFromMime maps a MIME type onto a FileType.
// Returns ErrUnsupportedMimeType for anything outside the allowed set.
func FileTypeFromMime(mimeType string) (FileType, error) {
	ft, ok := allowedMimeTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMimeType, mimeType)
	}
	return ft, nil
}

// ValidateFilename checks the filename safety predicate: non-empty, within
// the length limit, and a base name (extension excluded) made only of
// letters, digits, dashes, underscores, dots, and spaces.
func ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFilename, ErrEmptyFilename)
	}
	if len(filename) > FilenameMaxLength {
		return fmt.Errorf("%w: %w", ErrInvalidFilename, ErrFilenameTooLong)
	}

	base := filename
	if dot := strings.LastIndex(filename, "."); dot > 0 {
		base = filename[:dot]
	}
	if !filenamePattern.MatchString(base) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidFilename, filename)
	}
	return nil
}

// SanitizeFilename rewrites an arbitrary name into one that satisfies the
// filename predicate. The extension is preserved, disallowed runes are
// stripped, whitespace runs collapse to a single dash, and the base name is
// capped at 100 characters. An empty result falls back to "untitled".
func SanitizeFilename(name string) string {
	base := name
	ext := ""
	if dot := strings.LastIndex(name, "."); dot > 0 {
		base = name[:dot]
		ext = name[dot:]
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune(r)
		}
	}

	sanitized := strings.Join(strings.Fields(b.String()), "-")
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	if sanitized == "" {
		sanitized = "untitled"
	}
	return sanitized + ext
}

// ValidateAsset validates an Asset according to domain rules.
//
// Validation rules:
//   - Filename must satisfy the filename predicate
//   - FileType must be valid
//   - Status must be valid when set
//
// NOT validated (populated by the processing pipeline):
//   - Vector, AITags, AISummary, ExtractedText, ThumbnailPath
//   - ID (0 is valid from database sequences)
func ValidateAsset(asset *Asset) error {
	if asset == nil {
		return fmt.Errorf("%w: asset is nil", ErrInvalidAsset)
	}
	if err := ValidateFilename(asset.Filename); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	if err := ValidateFileType(asset.FileType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, err)
	}
	if asset.Status != 0 {
		if err := ValidateStatus(asset.Status); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAsset, err)
		}
	}
	return nil
}

// ValidateFileType validates that a FileType has a valid value.
func ValidateFileType(ft FileType) error {
	if ft != FileTypeImage && ft != FileTypePDF {
		return fmt.Errorf("%w: value %d", ErrInvalidFileType, ft)
	}
	return nil
}

// ValidateStatus validates that a ProcessingStatus has a valid value.
func ValidateStatus(s ProcessingStatus) error {
	if s != StatusPending && s != StatusComplete && s != StatusFailed {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, s)
	}
	return nil
}
