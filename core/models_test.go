package core

import (
	"testing"
)

func TestIDFromBytes(t *testing.T) {
	a := IDFromBytes([]byte("same content"))
	b := IDFromBytes([]byte("same content"))
	if a != b {
		t.Errorf("identical content should produce identical IDs: %d != %d", a, b)
	}

	c := IDFromBytes([]byte("different content"))
	if a == c {
		t.Errorf("different content should produce different IDs, both %d", a)
	}

	if IDFromBytes(nil) == 0 {
		t.Error("empty content should still hash to a non-zero ID")
	}
}

func TestFileTypeString(t *testing.T) {
	tests := []struct {
		ft   FileType
		want string
	}{
		{FileTypeImage, "image"},
		{FileTypePDF, "pdf"},
		{FileType(0), "unknown"},
		{FileType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ft.String(); got != tt.want {
			t.Errorf("FileType(%d).String() = %q, want %q", tt.ft, got, tt.want)
		}
	}
}

func TestProcessingStatusString(t *testing.T) {
	tests := []struct {
		status ProcessingStatus
		want   string
	}{
		{StatusPending, "pending"},
		{StatusComplete, "complete"},
		{StatusFailed, "failed"},
		{ProcessingStatus(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("ProcessingStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestMatchTypeString(t *testing.T) {
	tests := []struct {
		mt   MatchType
		want string
	}{
		{MatchKeyword, "keyword"},
		{MatchSemantic, "semantic"},
		{MatchType(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mt.String(); got != tt.want {
			t.Errorf("MatchType(%d).String() = %q, want %q", tt.mt, got, tt.want)
		}
	}
}
