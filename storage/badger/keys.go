package badger

import (
	"encoding/binary"
	"time"

	"github.com/brightpool/assetvault/core"
)

// Key prefixes for different data types
const (
	assetRecordPrefix   = "astrec"
	assetDatePrefix     = "astdat"
	assetTagPrefix      = "asttag"
	downloadPrefix      = "astdwn"
	assetIDSeq          = "astseq"
	downloadIDSeq       = "astdwnseq"
	tagSeparator        = byte(0x00)
)

// makeAssetKey generates a key for an asset by ID.
// IDs are written in BigEndian order so ScanAssets walks records in ID order.
func makeAssetKey(id core.ID) []byte {
	prefix := assetRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeAssetDateKey generates a composite key for the creation-date index.
// Format: prefix:timestamp:id
func makeAssetDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := assetDatePrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialAssetDateKey generates a partial key for date range scans.
// Format: prefix:timestamp
func makePartialAssetDateKey(timestamp time.Time) []byte {
	prefix := assetDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeAssetTagKey generates a composite key for the tag index. The tag is
// separated from the asset ID by a zero byte, which cannot appear in a tag.
// Format: prefix:tag\x00id
func makeAssetTagKey(tag string, id core.ID) []byte {
	prefix := assetTagPrefix + ":"
	buf := make([]byte, len(prefix)+len(tag)+1+8)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], tag)
	buf[offset] = tagSeparator
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialAssetTagKey generates a partial key for tag lookups.
// Format: prefix:tag\x00
func makePartialAssetTagKey(tag string) []byte {
	prefix := assetTagPrefix + ":"
	buf := make([]byte, len(prefix)+len(tag)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], tag)
	buf[offset] = tagSeparator
	return buf
}

// makeDownloadKey generates a composite key for a download event.
// Format: prefix:assetID:downloadID
func makeDownloadKey(assetID, downloadID core.ID) []byte {
	prefix := downloadPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(assetID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(downloadID))
	return buf
}

// makePartialDownloadKey generates a partial key for one asset's downloads.
// Format: prefix:assetID
func makePartialDownloadKey(assetID core.ID) []byte {
	prefix := downloadPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(assetID))
	return buf
}
