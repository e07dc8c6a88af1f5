// Package mockmedia keeps uploaded images in memory. It is used for local
// development and tests.
package mockmedia

import (
	"context"
	"errors"
	"path"
	"sync"

	"github.com/amirasaad/cinema/pkg/provider/media"
)

// ErrUploadFailed is returned while the provider is set to fail.
var ErrUploadFailed = errors.New("mock media: upload failed")

// Provider is an in-memory media.Media. References it returns are relative
// and are resolved against the configured public base URL.
type Provider struct {
	mu        sync.Mutex
	assets    map[string][]byte
	destroyed []string
	failNext  error
}

// New creates an empty in-memory media provider.
func New() *Provider {
	return &Provider{assets: make(map[string][]byte)}
}

// FailNextUpload makes the next Upload return err.
func (p *Provider) FailNextUpload(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = err
}

// Upload implements media.Media.
func (p *Provider) Upload(_ context.Context, params *media.UploadParams) (*media.Asset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return nil, err
	}
	id := path.Join(params.Folder, params.Name)
	p.assets[id] = append([]byte(nil), params.Data...)
	return &media.Asset{ID: id, URL: id}, nil
}

// Destroy implements media.Media.
func (p *Provider) Destroy(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.assets, id)
	p.destroyed = append(p.destroyed, id)
	return nil
}

// Has reports whether an asset with id is stored.
func (p *Provider) Has(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.assets[id]
	return ok
}

// Len returns the number of stored assets.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.assets)
}

// Destroyed returns the IDs passed to Destroy, in call order.
func (p *Provider) Destroyed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.destroyed...)
}

var _ media.Media = (*Provider)(nil)
