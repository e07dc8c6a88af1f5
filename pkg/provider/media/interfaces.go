package media

import (
	"context"
)

// Media is the remote store for uploaded images.
type Media interface {
	// Upload stores the image under params.Folder and returns its durable reference.
	Upload(ctx context.Context, params *UploadParams) (*Asset, error)

	// Destroy removes a previously uploaded asset by its ID.
	Destroy(ctx context.Context, id string) error
}
