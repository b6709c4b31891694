package processing

import (
	"context"

	"github.com/brightpool/assetvault/core"
)

// Thumbnailer derives a preview image for an asset and returns the blob path
// it was stored under, or "" when no thumbnail was produced.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, asset *core.Asset, data []byte) (string, error)
}

// NoopThumbnailer never produces a thumbnail. It is the default collaborator
// until a real renderer is plugged in.
type NoopThumbnailer struct{}

var _ Thumbnailer = (*NoopThumbnailer)(nil)

// Thumbnail returns "" without touching the data.
func (NoopThumbnailer) Thumbnail(ctx context.Context, asset *core.Asset, data []byte) (string, error) {
	return "", nil
}
