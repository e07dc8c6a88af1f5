package common

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/amirasaad/cinema/pkg/utils"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
)

var allowedContentTypes = []string{"image/jpeg", "image/png"}

// FormImage reads the image in multipart field and checks it against cfg.
// A missing optional file yields nil, nil. Rejections are ErrValidation.
func FormImage(c *fiber.Ctx, field string, required bool, cfg *config.Upload) (*media.UploadParams, error) {
	// FormFile fails both for a missing field and a non-multipart body.
	fh, err := c.FormFile(field)
	if err != nil || fh.Size == 0 {
		if required {
			return nil, domain.Validationf("%s is required", field)
		}
		return nil, nil
	}
	if cfg.MaxSize > 0 && fh.Size > cfg.MaxSize {
		return nil, domain.Validationf("%s must be at most %d bytes", field, cfg.MaxSize)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if !slices.Contains(cfg.AllowedExtensions, ext) {
		return nil, domain.Validationf("%s must be one of %s", field, strings.Join(cfg.AllowedExtensions, ", "))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close() //nolint:errcheck
	limit := fh.Size
	if cfg.MaxSize > 0 {
		limit = cfg.MaxSize
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if int64(len(data)) > limit {
		return nil, domain.Validationf("%s must be at most %d bytes", field, limit)
	}

	mt := mimetype.Detect(data)
	if !slices.ContainsFunc(allowedContentTypes, mt.Is) {
		return nil, domain.Validationf("%s must be a JPEG or PNG image", field)
	}
	return &media.UploadParams{
		Name:        utils.ObjectName(field, fh.Filename, time.Now()),
		ContentType: mt.String(),
		Data:        data,
	}, nil
}
