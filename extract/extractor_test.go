package extract

import (
	"context"
	"testing"

	"github.com/brightpool/assetvault/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImageReturnsEmpty(t *testing.T) {
	e := NewExtractor()

	text, err := e.Extract(context.Background(), []byte{0xFF, 0xD8, 0xFF}, core.FileTypeImage)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractCorruptPDFFails(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), []byte("not a pdf at all"), core.FileTypePDF)
	assert.Error(t, err)
}

func TestExtractEmptyPDFFails(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(context.Background(), nil, core.FileTypePDF)
	assert.Error(t, err)
}
