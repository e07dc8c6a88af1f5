// Package cloudinarymedia stores uploaded images on Cloudinary.
package cloudinarymedia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// assetAPI is the part of the Cloudinary upload API this provider uses.
type assetAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Provider implements media.Media on top of the Cloudinary upload API.
type Provider struct {
	api    assetAPI
	logger *slog.Logger
}

// New creates a Cloudinary-backed media provider.
func New(cfg *config.Cloudinary, logger *slog.Logger) (*Provider, error) {
	if cfg == nil || cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and api secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return newWithAPI(&cld.Upload, logger), nil
}

func newWithAPI(api assetAPI, logger *slog.Logger) *Provider {
	return &Provider{api: api, logger: logger.With("provider", "cloudinary")}
}

// Upload implements media.Media.
func (p *Provider) Upload(ctx context.Context, params *media.UploadParams) (*media.Asset, error) {
	publicID := strings.TrimSuffix(params.Name, path.Ext(params.Name))
	res, err := p.api.Upload(ctx, bytes.NewReader(params.Data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       params.Folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}
	p.logger.Debug("Image uploaded", "public_id", res.PublicID, "bytes", len(params.Data))
	return &media.Asset{ID: res.PublicID, URL: res.SecureURL}, nil
}

// Destroy implements media.Media. Missing assets are not an error.
func (p *Provider) Destroy(ctx context.Context, id string) error {
	res, err := p.api.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", id, res.Result)
	}
	return nil
}

var _ media.Media = (*Provider)(nil)
