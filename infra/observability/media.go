package observability

import (
	"context"
	"path"
	"time"

	"github.com/amirasaad/cinema/pkg/provider/media"
)

// instrumentedMedia bounds every media call by a timeout and counts uploads.
type instrumentedMedia struct {
	next    media.Media
	timeout time.Duration
}

// InstrumentMedia wraps m so that uploads are counted in MediaUploads and
// every call is cancelled after timeout. A zero timeout disables the bound.
func InstrumentMedia(m media.Media, timeout time.Duration) media.Media {
	return &instrumentedMedia{next: m, timeout: timeout}
}

func (m *instrumentedMedia) Upload(ctx context.Context, params *media.UploadParams) (*media.Asset, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	asset, err := m.next.Upload(ctx, params)
	result := "ok"
	if err != nil {
		result = "error"
	}
	MediaUploads.WithLabelValues(path.Base(params.Folder), result).Inc()
	return asset, err
}

func (m *instrumentedMedia) Destroy(ctx context.Context, id string) error {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	return m.next.Destroy(ctx, id)
}

func (m *instrumentedMedia) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}
