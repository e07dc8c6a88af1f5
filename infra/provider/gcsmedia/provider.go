// Package gcsmedia stores uploaded images in a Google Cloud Storage bucket.
package gcsmedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"cloud.google.com/go/storage"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"google.golang.org/api/option"
)

const publicURLFormat = "https://storage.googleapis.com/%s/%s"

// Provider implements media.Media with one bucket; objects are world readable
// through the bucket's IAM policy.
type Provider struct {
	client *storage.Client
	bucket string
	logger *slog.Logger
}

// New creates a GCS-backed media provider. Without a credentials file the
// client falls back to GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg *config.GCS, logger *slog.Logger) (*Provider, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}
	return &Provider{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With("provider", "gcs", "bucket", cfg.Bucket),
	}, nil
}

// Upload implements media.Media. The object name doubles as the asset ID.
func (p *Provider) Upload(ctx context.Context, params *media.UploadParams) (*media.Asset, error) {
	object := ObjectPath(params.Folder, params.Name)
	wc := p.client.Bucket(p.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = params.ContentType
	if _, err := io.Copy(wc, bytes.NewReader(params.Data)); err != nil {
		_ = wc.Close()
		return nil, fmt.Errorf("gcs: write %s: %w", object, err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("gcs: close %s: %w", object, err)
	}
	p.logger.Debug("Image uploaded", "object", object, "bytes", len(params.Data))
	return &media.Asset{ID: object, URL: PublicURL(p.bucket, object)}, nil
}

// Destroy implements media.Media. Missing objects are not an error.
func (p *Provider) Destroy(ctx context.Context, id string) error {
	err := p.client.Bucket(p.bucket).Object(id).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs: delete %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	return p.client.Close()
}

// ObjectPath is the object name for an upload.
func ObjectPath(folder, name string) string {
	return path.Join(folder, name)
}

// PublicURL is the anonymous download URL of an object.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf(publicURLFormat, bucket, object)
}

var _ media.Media = (*Provider)(nil)
